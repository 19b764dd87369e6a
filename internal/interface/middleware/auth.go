package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	"chirper/internal/domain/repository"
	"chirper/pkg/helpers"
	"chirper/pkg/response"
)

// HeaderAccessToken and HeaderRefreshToken are the custom headers the session
// tokens travel in.
const (
	HeaderAccessToken  = "x-access-token"
	HeaderRefreshToken = "x-refresh-token"
)

const principalKey = "principal"

// Principal resolves the request's user from the access token header and
// stashes it in the context. It never aborts: unauthenticated requests just
// carry no principal, and the gates below decide what that means per route.
func Principal(jwtm *helpers.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderAccessToken)
		if raw == "" {
			c.Next()
			return
		}
		claims, err := jwtm.ParseAccessToken(raw)
		if err != nil {
			c.Next()
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.Next()
			return
		}
		u, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			c.Next()
			return
		}
		c.Set(principalKey, u)
		c.Set("userID", u.ID.Hex())
		c.Next()
	}
}

// RequireAuth rejects requests that carry no resolved principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Abort(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		c.Next()
	}
}

// RequireActive additionally rejects accounts that never confirmed their
// email.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.Abort(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if !u.Active {
			response.Abort(c, http.StatusForbidden, "account not activated", nil)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the principal resolved for this request, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
