package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "chirper/internal/interface/http"
	"chirper/internal/interface/middleware"
)

// AuthModule mounts the session and purpose-token routes. The write-heavy
// public endpoints carry tight per-IP limits.
type AuthModule struct {
	Handler *handlers.AuthHandler
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	signinLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIP(), nil)
	tokenLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/signup", signupLimiter, m.Handler.Signup)
	auth.POST("/signin", signinLimiter, m.Handler.Signin)
	auth.POST("/confirm", tokenLimiter, m.Handler.Confirm)
	auth.POST("/confirm/resend", tokenLimiter, m.Handler.ResendConfirmation)
	auth.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	auth.POST("/reset-password", tokenLimiter, m.Handler.ResetPasswordInit)
	auth.POST("/reset-password/confirm", tokenLimiter, m.Handler.ResetPasswordConfirm)

	auth.GET("/me", middleware.RequireAuth(), m.Handler.Me)
}
