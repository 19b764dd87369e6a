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

type CommentHandler struct {
	Comments *application.CommentService
	Logger   *logrus.Logger
}

func NewCommentHandler(comments *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Comments: comments, Logger: logger}
}

type commentRequest struct {
	Text string `json:"text" binding:"required,max=280"`
}

// Create posts a comment on the tweet in the path.
func (h *CommentHandler) Create(c *gin.Context) {
	tweetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	v, err := h.Comments.Create(c.Request.Context(), middleware.CurrentUser(c), tweetID, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, v, "comment created", nil)
}

// Reply posts a threaded reply under the comment in the path.
func (h *CommentHandler) Reply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	v, err := h.Comments.Reply(c.Request.Context(), middleware.CurrentUser(c), id, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, v, "reply created", nil)
}

func (h *CommentHandler) ListByTweet(c *gin.Context) {
	tweetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := paginate(c)
	views, err := h.Comments.ListByTweet(c.Request.Context(), tweetID, middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, views, "", gin.H{"limit": limit, "offset": offset})
}

func (h *CommentHandler) ListReplies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := paginate(c)
	views, err := h.Comments.ListReplies(c.Request.Context(), id, middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, views, "", gin.H{"limit": limit, "offset": offset})
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	v, err := h.Comments.Update(c.Request.Context(), middleware.CurrentUser(c), id, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, v, "comment updated", nil)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Comments.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "comment deleted", nil)
}

func (h *CommentHandler) Like(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Comments.Like(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, v, "liked", nil)
}

func (h *CommentHandler) Unlike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Comments.Unlike(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, v, "unliked", nil)
}
