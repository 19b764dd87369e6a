package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "chirper/internal/interface/http"
	"chirper/internal/interface/middleware"
)

type RoomModule struct {
	Handler *handlers.RoomHandler
	RDB     *redis.Client
}

func NewRoomModule(h *handlers.RoomHandler, rdb *redis.Client) *RoomModule {
	return &RoomModule{Handler: h, RDB: rdb}
}

func (m *RoomModule) Register(rg *gin.RouterGroup) {
	rooms := rg.Group("/rooms")
	rooms.Use(
		middleware.RequireAuth(),
		middleware.RequireActive(),
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(), nil),
	)
	rooms.POST("", m.Handler.Create)
	rooms.GET("", m.Handler.List)
	rooms.GET("/:id", m.Handler.Get)
	rooms.PUT("/:id", m.Handler.Rename)
	rooms.DELETE("/:id", m.Handler.Delete)
	rooms.PATCH("/:id/subscribe", m.Handler.Subscribe)
	rooms.PATCH("/:id/unsubscribe", m.Handler.Unsubscribe)
	rooms.GET("/:id/messages", m.Handler.ListMessages)
}
