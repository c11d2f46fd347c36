package logger

import (
	"errors"
	"io"
	"os"
	"strings"

	"VectorConsole/backend/go/internal/models"

	"github.com/sirupsen/logrus"
)

// Logger 是对 logrus 的封装，以提供更方便的结构化日志记录功能。
// 所有 With* 方法都返回新的 Logger，不修改接收者，可以安全地在 goroutine 间共享。
type Logger struct {
	entry *logrus.Entry
}

// Init 初始化全局的 logrus 配置。
// level: 设置日志级别 (e.g., logrus.InfoLevel, logrus.DebugLevel)。
func Init(level logrus.Level) {
	// JSON 格式，方便日志采集。
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(level)
}

// ParseLevel 解析配置中的日志级别，无法识别时回退到 info。
func ParseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// New 创建一个新的 Logger 实例，并可以预设一些初始字段。
func New(serviceName, traceID, userID string) *Logger {
	return &Logger{
		entry: logrus.WithFields(logrus.Fields{
			"service_name": serviceName,
			"trace_id":     traceID,
			"user_id":      userID,
		}),
	}
}

// Discard 返回一个丢弃所有输出的 Logger，供测试使用。
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(l)}
}

func (l *Logger) derive(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// With 添加单个字段。
func (l *Logger) With(key string, value interface{}) *Logger {
	return l.derive(key, value)
}

// WithRequest 将请求信息添加到日志条目中。
func (l *Logger) WithRequest(req models.RequestInfo) *Logger {
	return l.derive("request_info", req)
}

// WithError 将错误信息添加到日志条目中。
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	info := models.ErrorInfo{Message: err.Error(), Type: errorType(err)}
	return l.derive("error", info)
}

// WithErrorInfo 直接写入已经整理好的错误信息（例如带 HTTP 状态码）。
func (l *Logger) WithErrorInfo(info models.ErrorInfo) *Logger {
	return l.derive("error", info)
}

// WithPayload 将自定义的业务数据添加到日志条目中。
func (l *Logger) WithPayload(payload map[string]interface{}) *Logger {
	return l.derive("payload", payload)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrInvalidStateTransition):
		return "invalid_state_transition"
	case errors.Is(err, models.ErrTransport):
		return "transport_error"
	}
	return "error"
}

// Info 记录一条信息级别的日志。
func (l *Logger) Info(message string) {
	l.entry.Info(message)
}

// Warn 记录一条警告级别的日志。
func (l *Logger) Warn(message string) {
	l.entry.Warn(message)
}

// Error 记录一条错误级别的日志。
func (l *Logger) Error(message string) {
	l.entry.Error(message)
}

// Debug 记录一条调试级别的日志。
func (l *Logger) Debug(message string) {
	l.entry.Debug(message)
}

// Fatal 记录一条致命错误级别的日志，并终止程序。
func (l *Logger) Fatal(message string) {
	l.entry.Fatal(message)
}
