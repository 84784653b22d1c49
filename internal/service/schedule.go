package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/schedule"

	"github.com/sirupsen/logrus"
)

// ScheduleOptions 赛程获取选项，零值表示包含测试赛且按默认策略选择数据源
type ScheduleOptions struct {
	ExcludeTesting bool // 去掉测试赛
	ForceSecondary bool // 始终使用后备数据源
}

// GP 赛事标识：轮次或名称（模糊匹配），二者只能给一个
type GP struct {
	Round int
	Name  string
}

func (gp GP) String() string {
	if gp.Name != "" {
		return fmt.Sprintf("%q", gp.Name)
	}
	return fmt.Sprintf("round %d", gp.Round)
}

// ScheduleService 赛程解析入口：选择数据源、失败回退、构造赛程表并按标识符定位赛事/会话。
// 每次调用都重新构造赛程表，缓存只发生在 Fetcher 层。
type ScheduleService struct {
	primary          interfaces.ScheduleSource // 可为 nil
	secondary        interfaces.ScheduleSource
	sessions         schedule.SessionFactory
	firstPrimaryYear int
	now              func() time.Time
	logger           *logrus.Logger
}

// ServiceOption 可选配置
type ServiceOption func(*ScheduleService)

// WithClock 替换时钟（决定主数据源覆盖到哪一年）
func WithClock(now func() time.Time) ServiceOption {
	return func(s *ScheduleService) { s.now = now }
}

// NewScheduleService 创建赛程服务
func NewScheduleService(
	primary, secondary interfaces.ScheduleSource,
	sessions schedule.SessionFactory,
	firstPrimaryYear int,
	logger *logrus.Logger,
	opts ...ServiceOption,
) *ScheduleService {
	s := &ScheduleService{
		primary:          primary,
		secondary:        secondary,
		sessions:         sessions,
		firstPrimaryYear: firstPrimaryYear,
		now:              time.Now,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetEventSchedule 获取整季赛程。
// 年份在主数据源覆盖范围内时优先使用主数据源，失败（包括赛程表构造失败）时记录原因并回退到后备数据源。
func (s *ScheduleService) GetEventSchedule(ctx context.Context, year int, opts ScheduleOptions) (*schedule.Table, error) {
	var tbl *schedule.Table
	if s.usePrimary(year, opts.ForceSecondary) {
		var err error
		tbl, err = s.load(ctx, s.primary, year)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"year":   year,
				"source": s.primary.GetName(),
			}).Error("主数据源获取赛程失败，回退到后备数据源")
			tbl = nil
		}
	}
	if tbl == nil {
		var err error
		if s.secondary == nil {
			return nil, fmt.Errorf("获取%d赛季赛程失败: 未配置后备数据源", year)
		}
		tbl, err = s.load(ctx, s.secondary, year)
		if err != nil {
			return nil, fmt.Errorf("获取%d赛季赛程失败: %w", year, err)
		}
	}
	if opts.ExcludeTesting {
		tbl = tbl.WithoutTesting()
	}
	return tbl, nil
}

func (s *ScheduleService) usePrimary(year int, forceSecondary bool) bool {
	if s.primary == nil || forceSecondary {
		return false
	}
	return year >= s.firstPrimaryYear && year <= s.now().Year()
}

func (s *ScheduleService) load(ctx context.Context, src interfaces.ScheduleSource, year int) (*schedule.Table, error) {
	records, err := src.FetchSchedule(ctx, year)
	if err != nil {
		return nil, err
	}
	tbl, err := schedule.NewTable(year, records)
	if err != nil {
		return nil, fmt.Errorf("%s数据源赛程无效: %w", src.GetName(), err)
	}
	s.logger.WithFields(logrus.Fields{
		"year":   year,
		"source": src.GetName(),
		"events": tbl.Len(),
	}).Debug("赛程表构造完成")
	return tbl, nil
}

// GetEvent 按轮次或名称获取非测试赛事。测试赛统一为第 0 轮，不能按轮次获取，请使用 GetTestingEvent
func (s *ScheduleService) GetEvent(ctx context.Context, year int, gp GP, forceSecondary bool) (schedule.Event, error) {
	name := strings.TrimSpace(gp.Name)
	switch {
	case gp.Round != 0 && name != "":
		return schedule.Event{}, fmt.Errorf("轮次与名称只能指定一个: %w", schedule.ErrMutuallyExclusive)
	case name == "" && gp.Round == 0:
		return schedule.Event{}, fmt.Errorf("不能按轮次获取测试赛: %w", schedule.ErrInvalidIdentifier)
	case name == "" && gp.Round < 0:
		return schedule.Event{}, fmt.Errorf("无效的轮次 %d: %w", gp.Round, schedule.ErrInvalidIdentifier)
	}

	tbl, err := s.GetEventSchedule(ctx, year, ScheduleOptions{ExcludeTesting: true, ForceSecondary: forceSecondary})
	if err != nil {
		return schedule.Event{}, err
	}
	if name != "" {
		return tbl.GetEventByName(name)
	}
	return tbl.GetEventByRound(gp.Round)
}

// GetTestingEvent 获取第 testNumber 场测试赛（从 1 开始）
func (s *ScheduleService) GetTestingEvent(ctx context.Context, year, testNumber int) (schedule.Event, error) {
	if testNumber < 1 {
		return schedule.Event{}, fmt.Errorf("测试赛编号 %d 不存在: %w", testNumber, schedule.ErrInvalidIdentifier)
	}
	tbl, err := s.GetEventSchedule(ctx, year, ScheduleOptions{})
	if err != nil {
		return schedule.Event{}, err
	}
	tests := tbl.Testing()
	if testNumber > tests.Len() {
		return schedule.Event{}, fmt.Errorf("测试赛编号 %d 不存在（共%d场）: %w", testNumber, tests.Len(), schedule.ErrNotFound)
	}
	return tests.Event(testNumber - 1), nil
}

// GetSession 定位赛事后解析会话标识符并构造会话句柄
func (s *ScheduleService) GetSession(ctx context.Context, year int, gp GP, id schedule.SessionIdentifier, forceSecondary bool) (schedule.SessionHandle, error) {
	ev, err := s.GetEvent(ctx, year, gp, forceSecondary)
	if err != nil {
		return nil, err
	}
	return ev.Session(id, s.sessions)
}

// GetTestingSession 第 testNumber 场测试赛的第 sessionNumber 场会话
func (s *ScheduleService) GetTestingSession(ctx context.Context, year, testNumber, sessionNumber int) (schedule.SessionHandle, error) {
	ev, err := s.GetTestingEvent(ctx, year, testNumber)
	if err != nil {
		return nil, err
	}
	return ev.Session(schedule.SessionNumber(sessionNumber), s.sessions)
}
