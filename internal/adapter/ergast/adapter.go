package ergast

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SeasonSchedule/internal/adapter"
	"SeasonSchedule/internal/config"
	"SeasonSchedule/internal/interfaces"
	"SeasonSchedule/internal/model"
	"SeasonSchedule/internal/schedule"

	"github.com/sirupsen/logrus"
)

func init() {
	adapter.Register(model.SourceErgast, func(cfg *config.SourceConfig, fetcher interfaces.Fetcher, logger *logrus.Logger) interfaces.ScheduleSource {
		return NewAdapter(NewClient(cfg.BaseURL, fetcher), logger)
	})
}

// Adapter 后备数据源：Ergast 只有比赛日信息，其余会话按常规周末推算
type Adapter struct {
	provider interfaces.SeasonProvider
	logger   *logrus.Logger
}

// NewAdapter 创建后备数据源适配器
func NewAdapter(provider interfaces.SeasonProvider, logger *logrus.Logger) *Adapter {
	return &Adapter{provider: provider, logger: logger}
}

func (a *Adapter) GetName() string {
	return string(model.SourceErgast)
}

func (a *Adapter) FetchSchedule(ctx context.Context, year int) ([]schedule.Record, error) {
	races, err := a.provider.FetchSeason(ctx, year)
	if err != nil {
		return nil, err
	}
	records := make([]schedule.Record, 0, len(races))
	for _, race := range races {
		log := a.logger.WithFields(logrus.Fields{"year": year, "round": race.Round, "race": race.RaceName})
		round, err := strconv.Atoi(strings.TrimSpace(race.Round))
		if err != nil {
			log.WithError(err).Warn("轮次不是整数，跳过该场比赛")
			continue
		}
		date, err := raceDateTime(race)
		if err != nil {
			log.WithError(err).Warn("比赛时间解析失败，该场时间置空")
		}
		records = append(records, synthesize(round, race, date))
	}
	return records, nil
}

// raceDateTime 比赛日期 + 可选时间，带时区偏移的只去掉偏移，保留当地时钟读数
func raceDateTime(race model.ErgastRace) (time.Time, error) {
	value := strings.TrimSpace(race.Date)
	if t := strings.TrimSpace(race.Time); t != "" {
		value += "T" + t
	}
	date := schedule.ParseDateTime(value)
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("无法解析时间 %q", value)
	}
	return date, nil
}

// synthesize 按常规周末推算会话：一练/二练在比赛日前两天，三练/排位赛前一天，只有日期精度
func synthesize(round int, race model.ErgastRace, date time.Time) schedule.Record {
	var twoDaysBefore, dayBefore time.Time
	if !date.IsZero() {
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		twoDaysBefore = day.AddDate(0, 0, -2)
		dayBefore = day.AddDate(0, 0, -1)
	}
	return schedule.Record{
		schedule.ColRoundNumber:       round,
		schedule.ColCountry:           race.Circuit.Location.Country,
		schedule.ColLocation:          race.Circuit.Location.Locality,
		schedule.ColOfficialEventName: "",
		schedule.ColEventDate:         date,
		schedule.ColEventName:         race.RaceName,
		schedule.ColEventFormat:       schedule.FormatConventional,
		schedule.SessionColumn(1):     schedule.SessionPractice1,
		schedule.SessionDateColumn(1): twoDaysBefore,
		schedule.SessionColumn(2):     schedule.SessionPractice2,
		schedule.SessionDateColumn(2): twoDaysBefore,
		schedule.SessionColumn(3):     schedule.SessionPractice3,
		schedule.SessionDateColumn(3): dayBefore,
		schedule.SessionColumn(4):     schedule.SessionQualifying,
		schedule.SessionDateColumn(4): dayBefore,
		schedule.SessionColumn(5):     schedule.SessionRace,
		schedule.SessionDateColumn(5): date,
		schedule.ColF1APISupport:      false,
	}
}
