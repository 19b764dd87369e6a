package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "chirper/internal/interface/http"
	"chirper/internal/interface/middleware"
)

type UploadModule struct {
	Handler *handlers.UploadHandler
	RDB     *redis.Client
}

func NewUploadModule(h *handlers.UploadHandler, rdb *redis.Client) *UploadModule {
	return &UploadModule{Handler: h, RDB: rdb}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	uploads.Use(
		middleware.RequireAuth(),
		middleware.RequireActive(),
		middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	uploads.POST("", m.Handler.Create)
	uploads.GET("", m.Handler.List)
	uploads.DELETE("/:id", m.Handler.Delete)
}
