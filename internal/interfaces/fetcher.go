package interfaces

import (
	"context"
	"time"

	"SeasonSchedule/internal/model"
)

// Fetcher 上游 HTTP 拉取（限速、重试、缓存都在这一层，调用方只关心响应文本）
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Response, error)
}

// ResponseStore 响应缓存存储
type ResponseStore interface {
	// Get 按 URL 读取缓存，未命中返回 (nil, nil)
	Get(ctx context.Context, url string) (*model.CachedResponse, error)
	// Save 按 URL 写入或覆盖缓存
	Save(ctx context.Context, entry *model.CachedResponse) error
	// PurgeExpired 删除 before 之前过期的缓存，返回删除条数
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
