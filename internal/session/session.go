package session

import (
	"encoding/json"
	"fmt"
	"time"

	"SeasonSchedule/internal/schedule"
)

// Session 某个赛事中的一场会话。Date 为零值表示时间未知
type Session struct {
	Event  schedule.Event
	Name   string
	Number int // 所在槽位（1-5）
	Date   time.Time
}

// SessionName 实现 schedule.SessionHandle
func (s *Session) SessionName() string { return s.Name }

// IsSprint 是否为冲刺排位赛
func (s *Session) IsSprint() bool { return s.Name == schedule.SessionSprintQualifying }

func (s *Session) String() string {
	return fmt.Sprintf("%d Season Round %d: %s - %s", s.Event.Year, s.Event.RoundNumber, s.Event.EventName, s.Name)
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year          int        `json:"year"`
		RoundNumber   int        `json:"round_number"`
		EventName     string     `json:"event_name"`
		Country       string     `json:"country"`
		Location      string     `json:"location"`
		EventFormat   string     `json:"event_format"`
		SessionName   string     `json:"session_name"`
		SessionNumber int        `json:"session_number"`
		Date          *time.Time `json:"date"`
		F1APISupport  bool       `json:"f1_api_support"`
	}{
		Year:          s.Event.Year,
		RoundNumber:   s.Event.RoundNumber,
		EventName:     s.Event.EventName,
		Country:       s.Event.Country,
		Location:      s.Event.Location,
		EventFormat:   s.Event.EventFormat,
		SessionName:   s.Name,
		SessionNumber: s.Number,
		Date:          schedule.NullableTime(s.Date),
		F1APISupport:  s.Event.F1APISupport,
	})
}

// Factory 默认会话工厂，只记录会话所在槽位与时间，不加载任何计时数据
type Factory struct{}

// NewFactory 创建默认会话工厂
func NewFactory() *Factory { return &Factory{} }

// Construct 实现 schedule.SessionFactory
func (f *Factory) Construct(event schedule.Event, sessionName string) (schedule.SessionHandle, error) {
	for i := 1; i <= schedule.SessionSlots; i++ {
		if name, date := event.SessionSlot(i); name == sessionName {
			return &Session{Event: event, Name: sessionName, Number: i, Date: date}, nil
		}
	}
	return nil, fmt.Errorf("会话 '%s' 不在该赛事中: %w", sessionName, schedule.ErrNotFound)
}
