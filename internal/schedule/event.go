package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event 赛程表中的一行（一个比赛周末或测试赛），只读值对象，由 Table 生成。
// 时间字段零值表示未知。
type Event struct {
	Year              int
	RoundNumber       int
	Country           string
	Location          string
	OfficialEventName string
	EventDate         time.Time
	EventName         string
	EventFormat       string
	Session1          string
	Session1Date      time.Time
	Session2          string
	Session2Date      time.Time
	Session3          string
	Session3Date      time.Time
	Session4          string
	Session4Date      time.Time
	Session5          string
	Session5Date      time.Time
	F1APISupport      bool
}

// IsTesting 是否为测试赛
func (e Event) IsTesting() bool {
	return e.EventFormat == FormatTesting
}

// SessionSlot 返回第 i 个会话槽位（1-5）的名称与时间，越界返回空值
func (e Event) SessionSlot(i int) (string, time.Time) {
	switch i {
	case 1:
		return e.Session1, e.Session1Date
	case 2:
		return e.Session2, e.Session2Date
	case 3:
		return e.Session3, e.Session3Date
	case 4:
		return e.Session4, e.Session4Date
	case 5:
		return e.Session5, e.Session5Date
	}
	return "", time.Time{}
}

func (e *Event) setSlot(i int, name string, date time.Time) {
	switch i {
	case 1:
		e.Session1, e.Session1Date = name, date
	case 2:
		e.Session2, e.Session2Date = name, date
	case 3:
		e.Session3, e.Session3Date = name, date
	case 4:
		e.Session4, e.Session4Date = name, date
	case 5:
		e.Session5, e.Session5Date = name, date
	}
}

// hasSession 该赛事的五个槽位中是否有名称完全一致的会话
func (e Event) hasSession(name string) bool {
	for i := 1; i <= SessionSlots; i++ {
		if s, _ := e.SessionSlot(i); s == name {
			return true
		}
	}
	return false
}

// SessionName 将会话标识符解析为完整会话名称，例如 3 / "FP3" / "practice 3" -> "Practice 3"
func (e Event) SessionName(id SessionIdentifier) (string, error) {
	return e.resolveSession(id)
}

// SessionDate 返回会话的举办时间（可能只有日期精度，也可能为零值）
func (e Event) SessionDate(id SessionIdentifier) (time.Time, error) {
	name, err := e.SessionName(id)
	if err != nil {
		return time.Time{}, err
	}
	for i := 1; i <= SessionSlots; i++ {
		if s, date := e.SessionSlot(i); s == name {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("会话类型 '%s' 在该赛事中不存在: %w", id, ErrNotFound)
}

// Session 解析会话标识符，并交给 factory 构造会话句柄
func (e Event) Session(id SessionIdentifier, factory SessionFactory) (SessionHandle, error) {
	if factory == nil {
		return nil, fmt.Errorf("未配置会话工厂")
	}
	name, err := e.resolveSession(id)
	if err != nil {
		return nil, err
	}
	return factory.Construct(e, name)
}

// Race 正赛
func (e Event) Race(factory SessionFactory) (SessionHandle, error) {
	return e.Session("R", factory)
}

// Qualifying 排位赛
func (e Event) Qualifying(factory SessionFactory) (SessionHandle, error) {
	return e.Session("Q", factory)
}

// Sprint 冲刺排位赛
func (e Event) Sprint(factory SessionFactory) (SessionHandle, error) {
	return e.Session("SQ", factory)
}

// Practice 第 n 场练习赛
func (e Event) Practice(n int, factory SessionFactory) (SessionHandle, error) {
	return e.Session(SessionIdentifier(fmt.Sprintf("FP%d", n)), factory)
}

type eventJSON struct {
	Year              int        `json:"year"`
	RoundNumber       int        `json:"round_number"`
	Country           string     `json:"country"`
	Location          string     `json:"location"`
	OfficialEventName string     `json:"official_event_name"`
	EventDate         *time.Time `json:"event_date"`
	EventName         string     `json:"event_name"`
	EventFormat       string     `json:"event_format"`
	Session1          string     `json:"session1"`
	Session1Date      *time.Time `json:"session1_date"`
	Session2          string     `json:"session2"`
	Session2Date      *time.Time `json:"session2_date"`
	Session3          string     `json:"session3"`
	Session3Date      *time.Time `json:"session3_date"`
	Session4          string     `json:"session4"`
	Session4Date      *time.Time `json:"session4_date"`
	Session5          string     `json:"session5"`
	Session5Date      *time.Time `json:"session5_date"`
	F1APISupport      bool       `json:"f1_api_support"`
}

// MarshalJSON 按列名输出，未知时间输出为 null
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		Year:              e.Year,
		RoundNumber:       e.RoundNumber,
		Country:           e.Country,
		Location:          e.Location,
		OfficialEventName: e.OfficialEventName,
		EventDate:         NullableTime(e.EventDate),
		EventName:         e.EventName,
		EventFormat:       e.EventFormat,
		Session1:          e.Session1,
		Session1Date:      NullableTime(e.Session1Date),
		Session2:          e.Session2,
		Session2Date:      NullableTime(e.Session2Date),
		Session3:          e.Session3,
		Session3Date:      NullableTime(e.Session3Date),
		Session4:          e.Session4,
		Session4Date:      NullableTime(e.Session4Date),
		Session5:          e.Session5,
		Session5Date:      NullableTime(e.Session5Date),
		F1APISupport:      e.F1APISupport,
	})
}

// NullableTime 零值转换为 nil，便于 JSON 输出 null
func NullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
