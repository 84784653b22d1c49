// internal/adapter/adapter.go
package adapter

import (
	"fmt"
	"sort"
	"sync"

	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"

	"github.com/sirupsen/logrus"
)

// ========== 全局工厂函数注册表 ==========
var (
	factoryMu       sync.RWMutex
	factoryRegistry = make(map[model.SourceType]interfaces.SourceFactory)
)

// Register 供数据源包的 init 函数调用，注册工厂函数
func Register(source model.SourceType, factory interfaces.SourceFactory) {
	if factory == nil {
		panic(fmt.Sprintf("数据源%s的工厂函数不能为nil", source))
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if _, exists := factoryRegistry[source]; exists {
		logrus.Warnf("数据源%s的适配器已注册，将覆盖原有实现", source)
	}
	factoryRegistry[source] = factory
	logrus.Debugf("数据源%s工厂函数注册成功", source)
}

// GetFactory 获取指定数据源的工厂函数
func GetFactory(source model.SourceType) (interfaces.SourceFactory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	factory, ok := factoryRegistry[source]
	return factory, ok
}

// ListFactories 列出所有已注册的数据源（按名称排序）
func ListFactories() []model.SourceType {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	sources := make([]model.SourceType, 0, len(factoryRegistry))
	for s := range factoryRegistry {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}
