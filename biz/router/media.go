package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/pressio/mediahub/biz/handler"
	"github.com/pressio/mediahub/biz/middleware"
)

// RegisterMediaRoutes configures HTTP routes for the media library APIs.
// Mutating routes serialize through the distributed write lock when Redis
// is enabled.
func RegisterMediaRoutes(r *server.Hertz, h *handler.MediaHandler) {
	if h == nil {
		return
	}

	writeLock := middleware.WriteLockMw()

	v1 := r.Group("/api/v1")
	v1.GET("/media", h.List)

	media := v1.Group("/media")
	media.GET("/uploads", h.ActiveUploads)
	media.GET("/file/:fileID/*fileName", h.GetFile)
	media.POST("/markup", h.Markup)

	media.POST("/upload", append(writeLock, h.Upload)...)
	media.POST("/upload/batch", append(writeLock, h.UploadBatch)...)
	media.DELETE("/:fileID", append(writeLock, h.DeleteAsset)...)
	media.PATCH("/:fileID", append(writeLock, h.PatchAsset)...)
	media.POST("/folders", append(writeLock, h.CreateFolder)...)
	media.DELETE("/folders/:folderID", append(writeLock, h.DeleteFolder)...)

	r.GET("/ping", handler.Ping)
}
