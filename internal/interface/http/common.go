// Package handlers contains the gin HTTP handlers for the REST surface.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/application"
	"chirper/pkg/response"
)

// fail maps application sentinels onto the HTTP error taxonomy. Anything
// unmapped becomes a generic 500; the concrete error stays in logs only.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidEmail),
		errors.Is(err, application.ErrWeakPassword),
		errors.Is(err, application.ErrEmptyBody),
		errors.Is(err, application.ErrInvalidID):
		response.Fail(c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrTokenExpired):
		response.Fail(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrAccountInactive),
		errors.Is(err, application.ErrNotOwner),
		errors.Is(err, application.ErrNotSubscriber),
		errors.Is(err, application.ErrNotAuthor):
		response.Fail(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, application.ErrNotFound):
		response.Fail(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrUsernameTaken),
		errors.Is(err, application.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, err.Error(), nil)
	default:
		response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, application.ErrInvalidID.Error(), nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

// paginate reads limit/offset query params with sane bounds.
func paginate(c *gin.Context) (limit, offset int64) {
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ = strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
