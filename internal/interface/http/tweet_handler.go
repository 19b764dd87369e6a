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

type TweetHandler struct {
	Tweets *application.TweetService
	Logger *logrus.Logger
}

func NewTweetHandler(tweets *application.TweetService, logger *logrus.Logger) *TweetHandler {
	return &TweetHandler{Tweets: tweets, Logger: logger}
}

type tweetRequest struct {
	Text string `json:"text" binding:"required,max=280"`
}

func (h *TweetHandler) Create(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	v, err := h.Tweets.Create(c.Request.Context(), middleware.CurrentUser(c), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, v, "tweet created", nil)
}

func (h *TweetHandler) List(c *gin.Context) {
	limit, offset := paginate(c)
	views, err := h.Tweets.List(c.Request.Context(), middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, views, "", gin.H{"limit": limit, "offset": offset})
}

func (h *TweetHandler) Feed(c *gin.Context) {
	limit, offset := paginate(c)
	views, err := h.Tweets.Feed(c.Request.Context(), middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, views, "", gin.H{"limit": limit, "offset": offset})
}

func (h *TweetHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Tweets.Get(c.Request.Context(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, v, "", nil)
}

func (h *TweetHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	v, err := h.Tweets.Update(c.Request.Context(), middleware.CurrentUser(c), id, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, v, "tweet updated", nil)
}

func (h *TweetHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Tweets.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "tweet deleted", nil)
}

func (h *TweetHandler) Like(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Tweets.Like(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, v, "liked", nil)
}

func (h *TweetHandler) Unlike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Tweets.Unlike(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, v, "unliked", nil)
}

type retweetRequest struct {
	Text string `json:"text" binding:"max=280"`
}

// Retweet allows an empty text (plain retweet) or a quote body.
func (h *TweetHandler) Retweet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req retweetRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	v, err := h.Tweets.Retweet(c.Request.Context(), middleware.CurrentUser(c), id, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, v, "retweeted", nil)
}
