package model

// ========== Ergast 兼容 API 响应结构（GET /<year>.json） ==========

// ErgastSeasonResponse 赛季接口根响应
type ErgastSeasonResponse struct {
	MRData struct {
		Total     string `json:"total"`
		RaceTable struct {
			Season string       `json:"season"`
			Races  []ErgastRace `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

// ErgastRace 单轮比赛。round/date/time 均为字符串，time 可能缺失
type ErgastRace struct {
	Season   string        `json:"season"`
	Round    string        `json:"round"`
	URL      string        `json:"url"`
	RaceName string        `json:"raceName"`
	Circuit  ErgastCircuit `json:"Circuit"`
	Date     string        `json:"date"`
	Time     string        `json:"time,omitempty"`
}

// ErgastCircuit 赛道信息
type ErgastCircuit struct {
	CircuitID   string         `json:"circuitId"`
	URL         string         `json:"url"`
	CircuitName string         `json:"circuitName"`
	Location    ErgastLocation `json:"Location"`
}

// ErgastLocation 赛道所在地
type ErgastLocation struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"` // 城市，对应赛程表 location
	Country  string `json:"country"`
}
