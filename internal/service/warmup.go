package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/schedule"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScheduleLoader 预热只依赖整季赛程获取
type ScheduleLoader interface {
	GetEventSchedule(ctx context.Context, year int, opts ScheduleOptions) (*schedule.Table, error)
}

// WarmupService 定时清理过期缓存并预先拉取当季赛程（主/后备两个数据源）
type WarmupService struct {
	loader  ScheduleLoader
	store   interfaces.ResponseStore // 可为 nil
	spec    string
	timeout time.Duration
	now     func() time.Time
	logger  *logrus.Logger

	c *cron.Cron
}

// cronParser 同时支持 5 段/6 段（带秒）表达式与 @daily 之类的描述符
var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// NewWarmupService spec 非法时返回错误
func NewWarmupService(loader ScheduleLoader, store interfaces.ResponseStore, spec string, logger *logrus.Logger) (*WarmupService, error) {
	if _, err := cronParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("解析预热Cron表达式失败: %w", err)
	}
	return &WarmupService{
		loader:  loader,
		store:   store,
		spec:    spec,
		timeout: 2 * time.Minute,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Start 注册定时任务并启动调度
func (w *WarmupService) Start() error {
	w.c = cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := w.c.AddFunc(w.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if err := w.RunOnce(ctx); err != nil {
			w.logger.WithError(err).Warn("赛程缓存预热失败")
		}
	}); err != nil {
		return fmt.Errorf("注册预热任务失败: %w", err)
	}
	w.c.Start()
	w.logger.WithField("cron", w.spec).Info("赛程缓存预热任务已启动")
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (w *WarmupService) Stop(ctx context.Context) {
	if w.c == nil {
		return
	}
	select {
	case <-w.c.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce 执行一次预热
func (w *WarmupService) RunOnce(ctx context.Context) error {
	now := w.now()
	var errs []error
	if w.store != nil {
		n, err := w.store.PurgeExpired(ctx, now)
		if err != nil {
			errs = append(errs, err)
		} else if n > 0 {
			w.logger.WithField("purged", n).Info("已清理过期响应缓存")
		}
	}

	year := now.Year()
	for _, opts := range []ScheduleOptions{{}, {ForceSecondary: true}} {
		tbl, err := w.loader.GetEventSchedule(ctx, year, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		w.logger.WithFields(logrus.Fields{
			"year":            year,
			"force_secondary": opts.ForceSecondary,
			"events":          tbl.Len(),
		}).Info("赛程缓存预热完成")
	}
	return errors.Join(errs...)
}
