package adapter

import (
	"fmt"

	"SeasonSchedule/internal/config"
	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"

	"github.com/sirupsen/logrus"
)

// FetcherBuilder 为每个数据源构造独立的 Fetcher（各自的限速、超时与代理）
type FetcherBuilder func(name string, cfg *config.SourceConfig) interfaces.Fetcher

// SourceRegistry 已初始化的数据源实例
type SourceRegistry struct {
	logger  *logrus.Logger
	sources map[model.SourceType]interfaces.ScheduleSource
}

// NewSourceRegistry 遍历配置中的数据源，匹配已注册的工厂函数创建实例
func NewSourceRegistry(sources map[string]config.SourceConfig, build FetcherBuilder, logger *logrus.Logger) *SourceRegistry {
	r := &SourceRegistry{
		logger:  logger,
		sources: make(map[model.SourceType]interfaces.ScheduleSource),
	}
	logger.WithField("factory_sources", ListFactories()).Info("已注册的数据源工厂函数")

	for name, srcCfg := range sources {
		sourceType := model.SourceType(name)
		factory, ok := GetFactory(sourceType)
		if !ok {
			logger.WithField("source", name).Error("未找到对应的工厂函数（init未注册？）")
			continue
		}
		cfg := srcCfg
		ins := factory(&cfg, build(name, &cfg), logger)
		if ins == nil {
			logger.WithField("source", name).Error("工厂函数返回nil数据源实例")
			continue
		}
		r.sources[sourceType] = ins
		logger.WithFields(logrus.Fields{
			"source":   name,
			"base_url": cfg.BaseURL,
		}).Info("数据源初始化成功并加入注册表")
	}
	return r
}

// GetSource 获取数据源实例
func (r *SourceRegistry) GetSource(source model.SourceType) (interfaces.ScheduleSource, error) {
	ins, ok := r.sources[source]
	if !ok {
		return nil, fmt.Errorf("数据源%s未初始化", source)
	}
	return ins, nil
}

// Count 已初始化的数据源数量
func (r *SourceRegistry) Count() int {
	return len(r.sources)
}
