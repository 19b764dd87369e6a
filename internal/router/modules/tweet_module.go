package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "chirper/internal/interface/http"
	"chirper/internal/interface/middleware"
)

type TweetModule struct {
	Tweets   *handlers.TweetHandler
	Comments *handlers.CommentHandler
	RDB      *redis.Client
}

func NewTweetModule(tweets *handlers.TweetHandler, comments *handlers.CommentHandler, rdb *redis.Client) *TweetModule {
	return &TweetModule{Tweets: tweets, Comments: comments, RDB: rdb}
}

func (m *TweetModule) Register(rg *gin.RouterGroup) {
	tweets := rg.Group("/tweets")
	tweets.Use(
		middleware.RequireAuth(),
		middleware.RequireActive(),
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(), nil),
	)
	tweets.POST("", m.Tweets.Create)
	tweets.GET("", m.Tweets.List)
	tweets.GET("/feed", m.Tweets.Feed)
	tweets.GET("/:id", m.Tweets.Get)
	tweets.PUT("/:id", m.Tweets.Update)
	tweets.DELETE("/:id", m.Tweets.Delete)
	tweets.PATCH("/:id/like", m.Tweets.Like)
	tweets.PATCH("/:id/unlike", m.Tweets.Unlike)
	tweets.POST("/:id/retweet", m.Tweets.Retweet)

	// Comments on a tweet live under the tweet path; the rest of the comment
	// surface is mounted by CommentModule.
	tweets.POST("/:id/comments", m.Comments.Create)
	tweets.GET("/:id/comments", m.Comments.ListByTweet)
}
