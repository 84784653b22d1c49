package model

import (
	"time"

	"gorm.io/datatypes"
)

// CachedResponse 上游响应缓存（按 URL 唯一），由 Fetcher 读写，过期后重新拉取
type CachedResponse struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	EntryUUID  string         `gorm:"column:entry_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	URL        string         `gorm:"column:url;type:varchar(512);uniqueIndex;not null;comment:请求地址"`
	Source     string         `gorm:"column:source;type:varchar(32);not null;comment:数据源名称"`
	StatusCode int            `gorm:"column:status_code;type:int;not null;comment:HTTP状态码"`
	Headers    datatypes.JSON `gorm:"column:headers;type:jsonb;comment:响应头"`
	Body       string         `gorm:"column:body;type:text;not null;comment:响应体"`
	FetchedAt  time.Time      `gorm:"column:fetched_at;type:timestamp;not null;comment:拉取时间"`
	ExpiresAt  time.Time      `gorm:"column:expires_at;type:timestamp;index;not null;comment:过期时间"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (CachedResponse) TableName() string { return "cached_responses" }

// Expired 缓存是否已过期
func (c *CachedResponse) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
