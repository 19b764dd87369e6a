package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "chirper/internal/interface/http"
	"chirper/internal/interface/middleware"
)

type CommentModule struct {
	Handler *handlers.CommentHandler
	RDB     *redis.Client
}

func NewCommentModule(h *handlers.CommentHandler, rdb *redis.Client) *CommentModule {
	return &CommentModule{Handler: h, RDB: rdb}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	comments := rg.Group("/comments")
	comments.Use(
		middleware.RequireAuth(),
		middleware.RequireActive(),
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(), nil),
	)
	comments.POST("/:id/replies", m.Handler.Reply)
	comments.GET("/:id/replies", m.Handler.ListReplies)
	comments.PUT("/:id", m.Handler.Update)
	comments.DELETE("/:id", m.Handler.Delete)
	comments.PATCH("/:id/like", m.Handler.Like)
	comments.PATCH("/:id/unlike", m.Handler.Unlike)
}
