package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"VectorConsole/backend/go/internal/console_service/uploads"
	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
)

// errorResponse 把领域错误映射为 HTTP 状态码和 JSON 响应体。
func errorResponse(err error) (int, gin.H) {
	var verr *folderconfig.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, gin.H{"error": verr.Message, "kind": string(verr.Kind), "field": verr.Field}
	case errors.Is(err, uploads.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, gin.H{"error": err.Error(), "kind": "file_too_large", "field": "file"}
	case errors.Is(err, uploads.ErrEmptyFile):
		return http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "empty_file", "field": "file"}
	case errors.Is(err, uploads.ErrNotPDF):
		return http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "not_pdf", "field": "file"}
	case errors.Is(err, uploads.ErrUnreadablePDF):
		return http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "unreadable_pdf", "field": "file"}
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found"}
	case errors.Is(err, models.ErrInvalidStateTransition):
		return http.StatusConflict, gin.H{"error": err.Error(), "kind": "invalid_state_transition"}
	case errors.Is(err, models.ErrTransport):
		return http.StatusServiceUnavailable, gin.H{"error": err.Error(), "kind": "transport_error", "retryable": true}
	default:
		return http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": "internal"}
	}
}

// fail 写入错误响应，并把 err 记到 gin 上下文中供 RequestLogger 使用。
func fail(c *gin.Context, err error) {
	status, body := errorResponse(err)
	_ = c.Error(err)
	c.JSON(status, body)
}

func badRequest(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": "invalid_request", "field": field})
}
