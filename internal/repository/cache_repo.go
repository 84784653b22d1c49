package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository 创建基于 gorm 的响应缓存仓储
func NewCacheRepository(db *gorm.DB) interfaces.ResponseStore {
	return &cacheRepository{db: db}
}

// AutoMigrate 建表（cached_responses）
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.CachedResponse{}); err != nil {
		return fmt.Errorf("迁移缓存表失败: %w", err)
	}
	return nil
}

func (r *cacheRepository) Get(ctx context.Context, url string) (*model.CachedResponse, error) {
	var entry model.CachedResponse
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询缓存失败: %w", err)
	}
	return &entry, nil
}

// Save 按 url 冲突时覆盖响应内容与过期时间
func (r *cacheRepository) Save(ctx context.Context, entry *model.CachedResponse) error {
	if entry.EntryUUID == "" {
		entry.EntryUUID = uuid.NewString()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"source", "status_code", "headers", "body", "fetched_at", "expires_at", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("写入缓存失败: %w, url: %s", err, entry.URL)
	}
	return nil
}

func (r *cacheRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&model.CachedResponse{})
	if res.Error != nil {
		return 0, fmt.Errorf("清理过期缓存失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}
