package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SeasonSchedule/internal/fuzzy"
)

// Table 单个赛季的赛程表。按列存储，构造时一次性完成类型转换，之后只读。
// 通过 NewTable 创建，零值不可用。
type Table struct {
	year int

	roundNumber       []int
	country           []string
	location          []string
	officialEventName []string
	eventDate         []time.Time
	eventName         []string
	eventFormat       []string
	sessions          [SessionSlots][]string
	sessionDates      [SessionSlots][]time.Time
	f1APISupport      []bool
}

// NewTable 按固定列结构构造赛程表。缺失的列取默认值，多余的列被忽略。
// round_number 必须存在且为整数；非 0 轮次在赛季内必须唯一（测试赛可共用 0）。
func NewTable(year int, records []Record) (*Table, error) {
	t := &Table{year: year}
	seen := make(map[int]int, len(records))

	for i, rec := range records {
		round, err := toInt(rec[ColRoundNumber])
		if err != nil {
			return nil, fmt.Errorf("第%d行 %s: %v: %w", i, ColRoundNumber, err, ErrInvalidRecord)
		}
		if round < 0 {
			return nil, fmt.Errorf("第%d行 %s 为负数(%d): %w", i, ColRoundNumber, round, ErrInvalidRecord)
		}
		if prev, dup := seen[round]; dup && round != 0 {
			return nil, fmt.Errorf("第%d行与第%d行轮次重复(%d): %w", i, prev, round, ErrInvalidRecord)
		}
		seen[round] = i

		strs := make(map[string]string, 4+SessionSlots)
		for _, col := range schema {
			if col.Type != ColumnString {
				continue
			}
			s, err := toString(rec[col.Name])
			if err != nil {
				return nil, fmt.Errorf("第%d行 %s: %v: %w", i, col.Name, err, ErrInvalidRecord)
			}
			strs[col.Name] = s
		}
		support, err := toBool(rec[ColF1APISupport])
		if err != nil {
			return nil, fmt.Errorf("第%d行 %s: %v: %w", i, ColF1APISupport, err, ErrInvalidRecord)
		}

		t.roundNumber = append(t.roundNumber, round)
		t.country = append(t.country, strs[ColCountry])
		t.location = append(t.location, strs[ColLocation])
		t.officialEventName = append(t.officialEventName, strs[ColOfficialEventName])
		t.eventDate = append(t.eventDate, toDateTime(rec[ColEventDate]))
		t.eventName = append(t.eventName, strs[ColEventName])
		t.eventFormat = append(t.eventFormat, strs[ColEventFormat])
		for s := 0; s < SessionSlots; s++ {
			t.sessions[s] = append(t.sessions[s], strs[SessionColumn(s+1)])
			t.sessionDates[s] = append(t.sessionDates[s], toDateTime(rec[SessionDateColumn(s+1)]))
		}
		t.f1APISupport = append(t.f1APISupport, support)
	}
	return t, nil
}

// Columns 返回固定的列结构（副本）
func (t *Table) Columns() []Column {
	return append([]Column(nil), schema...)
}

// Year 赛季年份
func (t *Table) Year() int { return t.year }

// Len 赛事数量
func (t *Table) Len() int { return len(t.roundNumber) }

// Event 返回第 i 行（按表内顺序）
func (t *Table) Event(i int) Event {
	ev := Event{
		Year:              t.year,
		RoundNumber:       t.roundNumber[i],
		Country:           t.country[i],
		Location:          t.location[i],
		OfficialEventName: t.officialEventName[i],
		EventDate:         t.eventDate[i],
		EventName:         t.eventName[i],
		EventFormat:       t.eventFormat[i],
		F1APISupport:      t.f1APISupport[i],
	}
	for s := 0; s < SessionSlots; s++ {
		ev.setSlot(s+1, t.sessions[s][i], t.sessionDates[s][i])
	}
	return ev
}

// Events 按表内顺序返回全部赛事
func (t *Table) Events() []Event {
	events := make([]Event, t.Len())
	for i := range events {
		events[i] = t.Event(i)
	}
	return events
}

// IsTesting 逐行判断是否为测试赛
func (t *Table) IsTesting() []bool {
	mask := make([]bool, t.Len())
	for i, f := range t.eventFormat {
		mask[i] = f == FormatTesting
	}
	return mask
}

// Filter 返回满足条件的行组成的新表，保持年份与顺序
func (t *Table) Filter(keep func(Event) bool) *Table {
	var idx []int
	for i := 0; i < t.Len(); i++ {
		if keep(t.Event(i)) {
			idx = append(idx, i)
		}
	}
	return t.take(idx)
}

// Testing 仅保留测试赛
func (t *Table) Testing() *Table {
	return t.Filter(func(ev Event) bool { return ev.IsTesting() })
}

// WithoutTesting 去掉测试赛
func (t *Table) WithoutTesting() *Table {
	return t.Filter(func(ev Event) bool { return !ev.IsTesting() })
}

func (t *Table) take(idx []int) *Table {
	out := &Table{year: t.year}
	for _, i := range idx {
		out.roundNumber = append(out.roundNumber, t.roundNumber[i])
		out.country = append(out.country, t.country[i])
		out.location = append(out.location, t.location[i])
		out.officialEventName = append(out.officialEventName, t.officialEventName[i])
		out.eventDate = append(out.eventDate, t.eventDate[i])
		out.eventName = append(out.eventName, t.eventName[i])
		out.eventFormat = append(out.eventFormat, t.eventFormat[i])
		for s := 0; s < SessionSlots; s++ {
			out.sessions[s] = append(out.sessions[s], t.sessions[s][i])
			out.sessionDates[s] = append(out.sessionDates[s], t.sessionDates[s][i])
		}
		out.f1APISupport = append(out.f1APISupport, t.f1APISupport[i])
	}
	return out
}

// GetEventByRound 按轮次精确查找，多行匹配（仅轮次 0 的测试赛）时返回第一行
func (t *Table) GetEventByRound(round int) (Event, error) {
	for i, r := range t.roundNumber {
		if r == round {
			return t.Event(i), nil
		}
	}
	return Event{}, fmt.Errorf("无效的轮次 %d: %w", round, ErrNotFound)
}

// GetEventByName 模糊匹配赛事名称，比较 location、country、event_name 与 official_event_name。
//
// 不设相似度阈值，总是返回得分最高的赛事（同分取靠前的），结果未必正确，调用方需自行核对。
// 查询词应避免 "Grand Prix" 之类的通用词，例如用 "Belgium" 而不是 "Belgian Grand Prix"。
func (t *Table) GetEventByName(name string) (Event, error) {
	if t.Len() == 0 {
		return Event{}, fmt.Errorf("赛程为空，无法匹配 '%s': %w", name, ErrNotFound)
	}
	candidates := make([][]string, t.Len())
	for i := range candidates {
		candidates[i] = t.matcherStrings(i)
	}
	return t.Event(fuzzy.BestIndex(name, candidates)), nil
}

func (t *Table) matcherStrings(i int) []string {
	official := t.officialEventName[i]
	official = strings.ReplaceAll(official, "FORMULA 1", "")
	official = strings.ReplaceAll(official, strconv.Itoa(t.year), "")
	official = strings.ReplaceAll(official, "GRAND PRIX", "")
	return []string{
		t.location[i],
		t.country[i],
		strings.ReplaceAll(t.eventName[i], "Grand Prix", ""),
		official,
	}
}

func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year    int      `json:"year"`
		Columns []Column `json:"columns"`
		Events  []Event  `json:"events"`
	}{t.year, t.Columns(), t.Events()})
}
