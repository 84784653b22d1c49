package interfaces

import (
	"context"

	"SeasonSchedule/internal/config"
	"SeasonSchedule/internal/model"
	"SeasonSchedule/internal/schedule"

	"github.com/sirupsen/logrus"
)

// ScheduleSource 所有赛程数据源必须实现的核心接口
type ScheduleSource interface {
	// GetName 数据源名称
	GetName() string
	// FetchSchedule 拉取整季赛程的原始行，列名与 schedule 包的列结构一致
	FetchSchedule(ctx context.Context, year int) ([]schedule.Record, error)
}

// SeasonProvider 按赛季返回 Ergast 兼容 API 的比赛列表
type SeasonProvider interface {
	FetchSeason(ctx context.Context, year int) ([]model.ErgastRace, error)
}

// SourceFactory 数据源工厂函数签名
// 入参：数据源配置、该数据源专属的 Fetcher、日志实例
type SourceFactory func(cfg *config.SourceConfig, fetcher Fetcher, logger *logrus.Logger) ScheduleSource
