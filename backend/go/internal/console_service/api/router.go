package api

import (
	"github.com/gin-gonic/gin"

	"VectorConsole/backend/go/pkg/logger"
)

// SetupRouter 配置和返回一个 Gin 引擎实例。/healthz 之外的路由都需要 API Key。
func SetupRouter(h *Handler, verifier *KeyVerifier, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	r.GET("/healthz", h.Health)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(AuthMiddleware(verifier))
	{
		apiV1.GET("/auth/validate", h.ValidateKey)

		projects := apiV1.Group("/projects")
		{
			projects.GET("", h.ListProjects)
			projects.POST("", h.CreateProject)
			projects.GET("/:projectId", h.GetProject)
			projects.DELETE("/:projectId", h.DeleteProject)

			folders := projects.Group("/:projectId/folders")
			{
				folders.GET("", h.ListFolders)
				folders.POST("", h.CreateFolder)
				folders.GET("/:folderId", h.GetFolder)
				folders.PUT("/:folderId", h.UpdateFolder)
				folders.DELETE("/:folderId", h.DeleteFolder)

				documents := folders.Group("/:folderId/documents")
				{
					documents.GET("", h.ListDocuments)
					documents.POST("", h.UploadDocument)
					documents.GET("/:documentId", h.GetDocument)
					documents.DELETE("/:documentId", h.DeleteDocument)
				}
			}
		}

		nav := apiV1.Group("/navigation")
		{
			nav.GET("", h.Navigation)
			nav.POST("/refresh", h.RefreshNavigation)
			nav.POST("/:projectId/refresh", h.RefreshProjectNavigation)
		}
	}
	return r
}
