package models

// RequestInfo 记录触发日志的 HTTP 请求上下文。
type RequestInfo struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
	Status     int    `json:"status,omitempty"`
	LatencyMS  int64  `json:"latency_ms,omitempty"`
}

// ErrorInfo 是结构化的错误信息。
type ErrorInfo struct {
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`        // 例如 "not_found", "transport_error"
	StatusCode int    `json:"status_code,omitempty"` // 相关的 HTTP 状态码
}
