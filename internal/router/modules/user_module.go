package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "chirper/internal/interface/http"
	"chirper/internal/interface/middleware"
)

type UserModule struct {
	Handler *handlers.UserHandler
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.RequireAuth())
	users.GET("", m.Handler.List)
	users.GET("/search", m.Handler.Search)
	users.GET("/:id", m.Handler.Get)

	// Mutations need an activated account.
	active := users.Group("/")
	active.Use(
		middleware.RequireActive(),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	active.PUT("/:id", m.Handler.Update)
	active.DELETE("/:id", m.Handler.Delete)
	active.PATCH("/:id/follow", m.Handler.Follow)
	active.PATCH("/:id/unfollow", m.Handler.Unfollow)
	active.POST("/avatar", m.Handler.UploadAvatar)
}
