package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"
)

// Client Ergast 兼容 API 客户端，只实现赛季比赛列表
type Client struct {
	baseURL string
	fetcher interfaces.Fetcher
}

// NewClient baseURL 形如 https://api.jolpi.ca/ergast/f1
func NewClient(baseURL string, fetcher interfaces.Fetcher) *Client {
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), fetcher: fetcher}
}

// SeasonURL 单赛季比赛列表地址，一个赛季不超过 100 轮
func (c *Client) SeasonURL(year int) string {
	return fmt.Sprintf("%s/%d.json?limit=100", c.baseURL, year)
}

// FetchSeason 返回 MRData.RaceTable.Races
func (c *Client) FetchSeason(ctx context.Context, year int) ([]model.ErgastRace, error) {
	resp, err := c.fetcher.Fetch(ctx, c.SeasonURL(year))
	if err != nil {
		return nil, fmt.Errorf("获取Ergast赛季数据失败: %w", err)
	}
	var body model.ErgastSeasonResponse
	if err := json.Unmarshal([]byte(resp.Text), &body); err != nil {
		return nil, fmt.Errorf("解析Ergast赛季数据失败: %w", err)
	}
	return body.MRData.RaceTable.Races, nil
}
