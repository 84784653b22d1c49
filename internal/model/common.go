package model

import "net/http"

// SourceType 赛程数据源类型枚举
type SourceType string

const (
	SourcePrimary SourceType = "primary" // 预处理过的赛程表（按赛季一个 JSON 文件）
	SourceErgast  SourceType = "ergast"  // Ergast 兼容 API，作为后备数据源
)

// Response 上游 HTTP 响应（Fetcher 统一返回），Text 为解压后的响应体
type Response struct {
	URL        string      `json:"url"`
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header,omitempty"`
	Text       string      `json:"text"`
	FromCache  bool        `json:"from_cache"`
}
