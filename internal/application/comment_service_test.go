package application

import (
	"context"
	"errors"
	"testing"
)

func TestCommentThreading(t *testing.T) {
	tweetSvc, commentSvc, users := newTweetFixture(t)
	ctx := context.Background()

	author := seedUser(t, users, "author")
	replier := seedUser(t, users, "replier")

	tweet, err := tweetSvc.Create(ctx, author, "post")
	if err != nil {
		t.Fatalf("tweet: %v", err)
	}
	top, err := commentSvc.Create(ctx, author, tweet.ID, "first")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	reply, err := commentSvc.Reply(ctx, replier, top.ID, "second")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Tweet != nil {
		t.Error("replies hang off the parent comment, not the tweet")
	}
	if reply.ParentComment == nil || *reply.ParentComment != top.ID {
		t.Error("reply parent not set")
	}

	// The tweet's comment list carries only top-level comments.
	list, err := commentSvc.ListByTweet(ctx, tweet.ID, author.ID, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != top.ID {
		t.Errorf("top-level comments = %d, want 1", len(list))
	}
	if list[0].RepliesCount != 1 {
		t.Errorf("replies count = %d, want 1", list[0].RepliesCount)
	}

	replies, err := commentSvc.ListReplies(ctx, top.ID, author.ID, 20, 0)
	if err != nil {
		t.Fatalf("replies: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != reply.ID {
		t.Errorf("replies = %d, want 1", len(replies))
	}
}

func TestCommentUpdateAuthorOnly(t *testing.T) {
	tweetSvc, commentSvc, users := newTweetFixture(t)
	ctx := context.Background()

	author := seedUser(t, users, "author")
	other := seedUser(t, users, "other")

	tweet, err := tweetSvc.Create(ctx, author, "post")
	if err != nil {
		t.Fatal(err)
	}
	c, err := commentSvc.Create(ctx, author, tweet.ID, "mine")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := commentSvc.Update(ctx, other, c.ID, "tampered"); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("err = %v, want %v", err, ErrNotAuthor)
	}
	if err := commentSvc.Delete(ctx, other, c.ID); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("delete err = %v, want %v", err, ErrNotAuthor)
	}
}

func TestCommentLikeCounters(t *testing.T) {
	tweetSvc, commentSvc, users := newTweetFixture(t)
	ctx := context.Background()

	author := seedUser(t, users, "author")
	fan := seedUser(t, users, "fan")

	tweet, err := tweetSvc.Create(ctx, author, "post")
	if err != nil {
		t.Fatal(err)
	}
	c, err := commentSvc.Create(ctx, author, tweet.ID, "mine")
	if err != nil {
		t.Fatal(err)
	}

	liked, err := commentSvc.Like(ctx, fan, c.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if liked.LikesCount != 1 || !liked.LikedByViewer {
		t.Errorf("likes = %d, likedByViewer = %v", liked.LikesCount, liked.LikedByViewer)
	}
	unliked, err := commentSvc.Unlike(ctx, fan, c.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if unliked.LikesCount != 0 {
		t.Errorf("likes after unlike = %d", unliked.LikesCount)
	}
}
