package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"VectorConsole/backend/go/internal/console_service/service"
	"VectorConsole/backend/go/internal/console_service/uploads"
	"VectorConsole/backend/go/internal/models"
)

// multipartOverhead 是上传请求体中除文件内容之外允许的字节数（边界、表头、metadata 字段）。
const multipartOverhead = 64 << 10

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// Health 用于存活探测，不需要认证。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ValidateKey 只有通过 AuthMiddleware 才能到达这里。
func (h *Handler) ValidateKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// --- Projects ---

func (h *Handler) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListProjects())
}

func (h *Handler) GetProject(c *gin.Context) {
	p, err := h.service.GetProject(c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req models.CreateProjectPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	p, err := h.service.CreateProject(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.service.DeleteProject(c.Request.Context(), c.Param("projectId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Folders ---

func (h *Handler) ListFolders(c *gin.Context) {
	folders, err := h.service.ListFolders(c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h *Handler) GetFolder(c *gin.Context) {
	f, err := h.service.GetFolder(c.Param("projectId"), c.Param("folderId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// CreateFolder 接收持久化形式的文件夹配置；projectId 以路径为准。
func (h *Handler) CreateFolder(c *gin.Context) {
	var req models.CreateFolderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	f, err := h.service.CreateFolder(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) UpdateFolder(c *gin.Context) {
	var req models.UpdateFolderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	f, err := h.service.UpdateFolder(c.Request.Context(), c.Param("projectId"), c.Param("folderId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) DeleteFolder(c *gin.Context) {
	if err := h.service.DeleteFolder(c.Request.Context(), c.Param("projectId"), c.Param("folderId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Documents ---

func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.service.ListDocuments(c.Param("projectId"), c.Param("folderId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) GetDocument(c *gin.Context) {
	d, err := h.service.GetDocument(c.Param("projectId"), c.Param("folderId"), c.Param("documentId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// UploadDocument 处理 multipart 上传：file 字段为 PDF，可选 metadata 字段为 JSON 对象。
func (h *Handler) UploadDocument(c *gin.Context) {
	limit := h.service.MaxUploadSize()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, fmt.Errorf("%w: request body exceeds %d bytes", uploads.ErrFileTooLarge, limit))
			return
		}
		badRequest(c, "file", "multipart field 'file' is required")
		return
	}

	var metadata map[string]string
	if raw := strings.TrimSpace(c.PostForm("metadata")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			badRequest(c, "metadata", "metadata must be a JSON object with string values")
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	doc, err := h.service.UploadDocument(c.Request.Context(), service.UploadRequest{
		ProjectID: c.Param("projectId"),
		FolderID:  c.Param("folderId"),
		Name:      fh.Filename,
		Size:      fh.Size,
		Content:   f,
		Metadata:  metadata,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	err := h.service.DeleteDocument(c.Request.Context(), c.Param("projectId"), c.Param("folderId"), c.Param("documentId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Navigation ---

func (h *Handler) Navigation(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Navigation())
}

// RefreshNavigation 刷新全部已缓存项目；部分失败时返回 503，已成功的项目仍然生效。
func (h *Handler) RefreshNavigation(c *gin.Context) {
	if err := h.service.RefreshAllNavigation(c.Request.Context()); err != nil {
		fail(c, &models.TransportError{Op: "refresh navigation", Err: err})
		return
	}
	c.JSON(http.StatusOK, h.service.Navigation())
}

func (h *Handler) RefreshProjectNavigation(c *gin.Context) {
	folders, err := h.service.RefreshNavigation(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}
