package schedule

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType 赛程表列类型
type ColumnType int

const (
	ColumnInt ColumnType = iota
	ColumnString
	ColumnDateTime
	ColumnBool
)

func (t ColumnType) String() string {
	switch t {
	case ColumnInt:
		return "int"
	case ColumnString:
		return "string"
	case ColumnDateTime:
		return "datetime"
	case ColumnBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Column 列定义（名称 + 类型）
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"-"`
}

func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}{c.Name, c.Type.String()})
}

// SessionSlots 每个赛事固定的会话槽位数
const SessionSlots = 5

const (
	ColRoundNumber       = "round_number"
	ColCountry           = "country"
	ColLocation          = "location"
	ColOfficialEventName = "official_event_name"
	ColEventDate         = "event_date"
	ColEventName         = "event_name"
	ColEventFormat       = "event_format"
	ColF1APISupport      = "f1_api_support"
)

// 赛事格式
const (
	FormatConventional = "conventional"
	FormatTesting      = "testing"
)

// SessionColumn 返回第 i 个会话名称列名（1-5）
func SessionColumn(i int) string { return "session" + strconv.Itoa(i) }

// SessionDateColumn 返回第 i 个会话时间列名（1-5）
func SessionDateColumn(i int) string { return SessionColumn(i) + "_date" }

// schema 固定列顺序
var schema = func() []Column {
	cols := []Column{
		{ColRoundNumber, ColumnInt},
		{ColCountry, ColumnString},
		{ColLocation, ColumnString},
		{ColOfficialEventName, ColumnString},
		{ColEventDate, ColumnDateTime},
		{ColEventName, ColumnString},
		{ColEventFormat, ColumnString},
	}
	for i := 1; i <= SessionSlots; i++ {
		cols = append(cols,
			Column{SessionColumn(i), ColumnString},
			Column{SessionDateColumn(i), ColumnDateTime},
		)
	}
	return append(cols, Column{ColF1APISupport, ColumnBool})
}()

// Record 数据源输出的一行原始数据，列名 -> 值。
// 值可以是 JSON 解码结果（json.Number/float64/string/bool/nil）或 Go 原生类型。
type Record map[string]any

// 可识别的时间字符串格式，带时区的统一转换为 UTC 后去掉时区
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case int32:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("非整数值 %v", x)
		}
		return int(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, err
		}
		return toInt(f)
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	case nil:
		return 0, fmt.Errorf("缺少整数值")
	default:
		return 0, fmt.Errorf("无法转换为整数: %T", v)
	}
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return "", nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("无法转换为字符串: %T", v)
	}
}

// toDateTime 转换为不带时区的时间，零值表示未知。数字按毫秒时间戳处理。
// 无法识别的值降级为零值，不影响整行。
func toDateTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return naive(x)
	case *time.Time:
		if x == nil {
			return time.Time{}
		}
		return naive(*x)
	case json.Number:
		ms, err := x.Float64()
		if err != nil {
			return time.Time{}
		}
		return fromMillis(ms)
	case float64:
		return fromMillis(x)
	case int64:
		return fromMillis(float64(x))
	case string:
		return ParseDateTime(x)
	default:
		return time.Time{}
	}
}

// ParseDateTime 解析时间字符串，失败返回零值
func ParseDateTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nat") || strings.EqualFold(s, "null") {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return naive(t)
		}
	}
	return time.Time{}
}

func fromMillis(ms float64) time.Time {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// naive 去掉时区信息，保留当地时钟读数（不换算到 UTC）
func naive(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case nil:
		return false, nil
	case float64:
		return x != 0, nil
	case int:
		return x != 0, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return false, err
		}
		return f != 0, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(x))
	default:
		return false, fmt.Errorf("无法转换为布尔值: %T", v)
	}
}
