package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 完整会话名称
const (
	SessionRace             = "Race"
	SessionQualifying       = "Qualifying"
	SessionSprintQualifying = "Sprint Qualifying"
	SessionPractice1        = "Practice 1"
	SessionPractice2        = "Practice 2"
	SessionPractice3        = "Practice 3"
)

// sessionAbbreviations 缩写 -> 完整名称
var sessionAbbreviations = map[string]string{
	"R":   SessionRace,
	"Q":   SessionQualifying,
	"SQ":  SessionSprintQualifying,
	"FP1": SessionPractice1,
	"FP2": SessionPractice2,
	"FP3": SessionPractice3,
}

var sessionNames = []string{
	SessionRace,
	SessionQualifying,
	SessionSprintQualifying,
	SessionPractice1,
	SessionPractice2,
	SessionPractice3,
}

// SessionIdentifier 会话标识符，可以是：
//   - 缩写：FP1、FP2、FP3、Q、SQ、R
//   - 完整名称（不区分大小写）：Practice 1、Sprint Qualifying、Race ...
//   - 会话编号：1-5
type SessionIdentifier string

// SessionNumber 由会话编号构造标识符
func SessionNumber(n int) SessionIdentifier {
	return SessionIdentifier(strconv.Itoa(n))
}

// SessionHandle 会话句柄，具体内容由 SessionFactory 决定
type SessionHandle interface {
	SessionName() string
}

// SessionFactory 根据赛事与完整会话名称构造会话句柄
type SessionFactory interface {
	Construct(event Event, sessionName string) (SessionHandle, error)
}

// resolveSession 标识符解析：能解析为数字时按编号取槽位，否则按名称/缩写匹配
func (e Event) resolveSession(id SessionIdentifier) (string, error) {
	if num, ok := parseSessionNumber(id); ok {
		return e.sessionByNumber(num)
	}
	return e.sessionByName(id)
}

func parseSessionNumber(id SessionIdentifier) (float64, bool) {
	num, err := strconv.ParseFloat(strings.TrimSpace(string(id)), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

func (e Event) sessionByNumber(num float64) (string, error) {
	if num != math.Trunc(num) || num < 1 || num > SessionSlots {
		return "", fmt.Errorf("无效的会话类型 '%s': %w", strconv.FormatFloat(num, 'g', -1, 64), ErrInvalidIdentifier)
	}
	n := int(num)
	name, _ := e.SessionSlot(n)
	if name == "" {
		return "", fmt.Errorf("第%d场会话在该赛事中不存在: %w", n, ErrNotFound)
	}
	return name, nil
}

func (e Event) sessionByName(id SessionIdentifier) (string, error) {
	name := canonicalSessionName(string(id))
	if name == "" {
		return "", fmt.Errorf("无效的会话类型 '%s': %w", id, ErrInvalidIdentifier)
	}
	if !e.hasSession(name) {
		return "", fmt.Errorf("该赛事没有 '%s' 类型的会话: %w", id, ErrNotFound)
	}
	return name, nil
}

// canonicalSessionName 先按完整名称（不区分大小写）匹配，再按缩写匹配，都失败返回空串
func canonicalSessionName(id string) string {
	for _, name := range sessionNames {
		if strings.EqualFold(id, name) {
			return name
		}
	}
	return sessionAbbreviations[strings.ToUpper(id)]
}
