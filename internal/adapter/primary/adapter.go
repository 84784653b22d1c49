package primary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"SeasonSchedule/internal/adapter"
	"SeasonSchedule/internal/config"
	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"
	"SeasonSchedule/internal/schedule"

	"github.com/sirupsen/logrus"
)

func init() {
	adapter.Register(model.SourcePrimary, New)
}

// Adapter 主数据源：按赛季一个预处理好的 JSON 文件，列名与赛程表一致
type Adapter struct {
	baseURL string
	fetcher interfaces.Fetcher
	logger  *logrus.Logger
}

// New 创建主数据源适配器
func New(cfg *config.SourceConfig, fetcher interfaces.Fetcher, logger *logrus.Logger) interfaces.ScheduleSource {
	return &Adapter{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		fetcher: fetcher,
		logger:  logger,
	}
}

// GetName ========== 实现ScheduleSource接口 ==========
func (a *Adapter) GetName() string {
	return string(model.SourcePrimary)
}

// ScheduleURL 赛季文件地址
func (a *Adapter) ScheduleURL(year int) string {
	return fmt.Sprintf("%s/schedule_%d.json", a.baseURL, year)
}

func (a *Adapter) FetchSchedule(ctx context.Context, year int) ([]schedule.Record, error) {
	resp, err := a.fetcher.Fetch(ctx, a.ScheduleURL(year))
	if err != nil {
		return nil, fmt.Errorf("获取%d赛季赛程失败: %w", year, err)
	}
	records, err := DecodeRecords([]byte(resp.Text))
	if err != nil {
		return nil, fmt.Errorf("解析%d赛季赛程失败: %w", year, err)
	}
	a.logger.WithFields(logrus.Fields{
		"year":       year,
		"events":     len(records),
		"from_cache": resp.FromCache,
	}).Debug("主数据源赛程获取成功")
	return records, nil
}

// DecodeRecords 解析赛程文件，兼容两种布局：
//   - 行数组：[{"round_number": 1, ...}, ...]
//   - 按列存储：{"round_number": {"0": 1, "1": 2}, ...}，行按行号数值排序
func DecodeRecords(data []byte) ([]schedule.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("响应为空")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	switch data[0] {
	case '[':
		var rows []map[string]any
		if err := dec.Decode(&rows); err != nil {
			return nil, err
		}
		records := make([]schedule.Record, len(rows))
		for i, row := range rows {
			if row == nil {
				return nil, fmt.Errorf("第%d行为空", i)
			}
			records[i] = schedule.Record(row)
		}
		return records, nil
	case '{':
		var cols map[string]map[string]any
		if err := dec.Decode(&cols); err != nil {
			return nil, err
		}
		return fromColumns(cols)
	default:
		return nil, fmt.Errorf("无法识别的赛程格式")
	}
}

func fromColumns(cols map[string]map[string]any) ([]schedule.Record, error) {
	rows := make(map[int]schedule.Record)
	for col, values := range cols {
		for key, v := range values {
			idx, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("列%s的行号%q不是整数", col, key)
			}
			rec, ok := rows[idx]
			if !ok {
				rec = make(schedule.Record, len(cols))
				rows[idx] = rec
			}
			rec[col] = v
		}
	}
	order := make([]int, 0, len(rows))
	for idx := range rows {
		order = append(order, idx)
	}
	sort.Ints(order)
	records := make([]schedule.Record, len(order))
	for i, idx := range order {
		records[i] = rows[idx]
	}
	return records, nil
}
