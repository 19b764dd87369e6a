package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chirper/internal/application"
	"chirper/internal/interface/middleware"
	"chirper/pkg/response"
	"chirper/pkg/validation"
)

type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	limit, offset := paginate(c)
	users, err := h.Users.List(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, users, "", gin.H{"limit": limit, "offset": offset})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusUnprocessableEntity, "query parameter q is required", nil)
		return
	}
	hits, err := h.Users.Search(c.Request.Context(), q, 10)
	if err != nil {
		h.Logger.WithError(err).Warn("user search failed")
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, hits, "", nil)
}

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	u, err := h.Users.Update(c.Request.Context(), middleware.CurrentUser(c), id, application.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "profile updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "account deleted", nil)
}

func (h *UserHandler) Follow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Users.Follow(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "followed", nil)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Users.Unfollow(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "unfollowed", nil)
}

// UploadAvatar accepts a multipart "avatar" part and stores it in GCS.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Users.UploadAvatar(c.Request.Context(), middleware.CurrentUser(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("avatar upload failed")
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"avatarUrl": url}, "avatar updated", nil)
}
