package application

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
)

// In-memory repositories used across the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = primitive.NewObjectID()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) GetBySocketID(_ context.Context, socketID string) (*entity.User, error) {
	if socketID == "" {
		return nil, repo.ErrNotFound
	}
	return f.find(func(u *entity.User) bool { return u.SocketID == socketID })
}

func (f *fakeUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int64) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.User{}
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) mutate(id primitive.ObjectID, fn func(*entity.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(u)
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id primitive.ObjectID) error {
	return f.mutate(id, func(u *entity.User) { u.Active = true })
}

func (f *fakeUserRepo) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return f.mutate(id, func(u *entity.User) { u.Password = hash })
}

func (f *fakeUserRepo) SetSocketID(_ context.Context, id primitive.ObjectID, socketID string) error {
	return f.mutate(id, func(u *entity.User) { u.SocketID = socketID })
}

func (f *fakeUserRepo) AddFollower(_ context.Context, target, follower primitive.ObjectID) error {
	return f.mutate(target, func(u *entity.User) { u.Followers = addID(u.Followers, follower) })
}

func (f *fakeUserRepo) RemoveFollower(_ context.Context, target, follower primitive.ObjectID) error {
	return f.mutate(target, func(u *entity.User) { u.Followers = removeID(u.Followers, follower) })
}

func (f *fakeUserRepo) ListFollowing(_ context.Context, follower primitive.ObjectID) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []primitive.ObjectID{}
	for _, u := range f.users {
		for _, fid := range u.Followers {
			if fid == follower {
				out = append(out, u.ID)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) AddSubscription(_ context.Context, user, room primitive.ObjectID) error {
	return f.mutate(user, func(u *entity.User) { u.Subscriptions = addID(u.Subscriptions, room) })
}

func (f *fakeUserRepo) RemoveSubscription(_ context.Context, user, room primitive.ObjectID) error {
	return f.mutate(user, func(u *entity.User) { u.Subscriptions = removeID(u.Subscriptions, room) })
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[primitive.ObjectID]*entity.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[primitive.ObjectID]*entity.Token{}}
}

func (f *fakeTokenRepo) Create(_ context.Context, t *entity.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = primitive.NewObjectID()
	cp := *t
	f.tokens[t.ID] = &cp
	return nil
}

func (f *fakeTokenRepo) GetByBodyAndType(_ context.Context, body string, typ entity.TokenType) (*entity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Body == body && t.Type == typ {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeTokenRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.tokens, id)
	return nil
}

func (f *fakeTokenRepo) DeleteByUser(_ context.Context, user primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tokens {
		if t.User == user {
			delete(f.tokens, id)
		}
	}
	return nil
}

func (f *fakeTokenRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[primitive.ObjectID]*entity.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[primitive.ObjectID]*entity.Room{}}
}

func (f *fakeRoomRepo) Create(_ context.Context, r *entity.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = primitive.NewObjectID()
	cp := *r
	f.rooms[r.ID] = &cp
	return nil
}

func (f *fakeRoomRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRoomRepo) List(_ context.Context, limit, offset int64) ([]*entity.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.Room{}
	for _, r := range f.rooms {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRoomRepo) mutate(id primitive.ObjectID, fn func(*entity.Room)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(r)
	return nil
}

func (f *fakeRoomRepo) Rename(_ context.Context, id primitive.ObjectID, name string) error {
	return f.mutate(id, func(r *entity.Room) { r.Name = name })
}

func (f *fakeRoomRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) AddSubscriber(_ context.Context, room, user primitive.ObjectID) error {
	return f.mutate(room, func(r *entity.Room) { r.Subscribers = addID(r.Subscribers, user) })
}

func (f *fakeRoomRepo) RemoveSubscriber(_ context.Context, room, user primitive.ObjectID) error {
	return f.mutate(room, func(r *entity.Room) { r.Subscribers = removeID(r.Subscribers, user) })
}

func (f *fakeRoomRepo) AddOnline(_ context.Context, room, user primitive.ObjectID) error {
	return f.mutate(room, func(r *entity.Room) { r.Online = addID(r.Online, user) })
}

func (f *fakeRoomRepo) RemoveOnline(_ context.Context, room, user primitive.ObjectID) error {
	return f.mutate(room, func(r *entity.Room) { r.Online = removeID(r.Online, user) })
}

func (f *fakeRoomRepo) RemoveOnlineEverywhere(_ context.Context, user primitive.ObjectID) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	affected := []primitive.ObjectID{}
	for _, r := range f.rooms {
		for _, id := range r.Online {
			if id == user {
				r.Online = removeID(r.Online, user)
				affected = append(affected, r.ID)
				break
			}
		}
	}
	return affected, nil
}

func (f *fakeRoomRepo) PushMessage(_ context.Context, room, message primitive.ObjectID) error {
	return f.mutate(room, func(r *entity.Room) { r.Messages = addID(r.Messages, message) })
}

func (f *fakeRoomRepo) PullMessage(_ context.Context, room, message primitive.ObjectID) error {
	return f.mutate(room, func(r *entity.Room) { r.Messages = removeID(r.Messages, message) })
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[primitive.ObjectID]*entity.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[primitive.ObjectID]*entity.Message{}}
}

func (f *fakeMessageRepo) Create(_ context.Context, m *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	cp := *m
	f.messages[m.ID] = &cp
	return nil
}

func (f *fakeMessageRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.messages[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeMessageRepo) ListByRoom(_ context.Context, room primitive.ObjectID, limit, offset int64) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.Message{}
	for _, m := range f.messages {
		if m.Room == room {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) Update(_ context.Context, m *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[m.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *m
	f.messages[m.ID] = &cp
	return nil
}

func (f *fakeMessageRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.messages, id)
	return nil
}

func (f *fakeMessageRepo) DeleteByRoom(_ context.Context, room primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.messages {
		if m.Room == room {
			delete(f.messages, id)
		}
	}
	return nil
}

type fakeTweetRepo struct {
	mu     sync.Mutex
	tweets map[primitive.ObjectID]*entity.Tweet
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{tweets: map[primitive.ObjectID]*entity.Tweet{}}
}

func (f *fakeTweetRepo) Create(_ context.Context, t *entity.Tweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = primitive.NewObjectID()
	cp := *t
	f.tweets[t.ID] = &cp
	return nil
}

func (f *fakeTweetRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tweets[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeTweetRepo) List(_ context.Context, limit, offset int64) ([]*entity.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.Tweet{}
	for _, t := range f.tweets {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTweetRepo) ListByAuthors(_ context.Context, authors []primitive.ObjectID, limit, offset int64) ([]*entity.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.Tweet{}
	for _, t := range f.tweets {
		for _, a := range authors {
			if t.Author == a {
				cp := *t
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTweetRepo) Update(_ context.Context, t *entity.Tweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tweets[t.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *t
	f.tweets[t.ID] = &cp
	return nil
}

func (f *fakeTweetRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tweets[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.tweets, id)
	return nil
}

func (f *fakeTweetRepo) mutate(id primitive.ObjectID, fn func(*entity.Tweet)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tweets[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(t)
	return nil
}

func (f *fakeTweetRepo) AddLike(_ context.Context, tweet, user primitive.ObjectID) error {
	return f.mutate(tweet, func(t *entity.Tweet) { t.Likes = addID(t.Likes, user) })
}

func (f *fakeTweetRepo) RemoveLike(_ context.Context, tweet, user primitive.ObjectID) error {
	return f.mutate(tweet, func(t *entity.Tweet) { t.Likes = removeID(t.Likes, user) })
}

func (f *fakeTweetRepo) CountRetweets(_ context.Context, tweet primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.tweets {
		if t.RetweetedTweet != nil && *t.RetweetedTweet == tweet {
			n++
		}
	}
	return n, nil
}

func (f *fakeTweetRepo) HasRetweetBy(_ context.Context, tweet, user primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tweets {
		if t.Author == user && t.RetweetedTweet != nil && *t.RetweetedTweet == tweet {
			return true, nil
		}
	}
	return false, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*entity.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[primitive.ObjectID]*entity.Comment{}}
}

func (f *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = primitive.NewObjectID()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeCommentRepo) ListByTweet(_ context.Context, tweet primitive.ObjectID, limit, offset int64) ([]*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.Comment{}
	for _, c := range f.comments {
		if c.Tweet != nil && *c.Tweet == tweet && c.ParentComment == nil {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) ListReplies(_ context.Context, parent primitive.ObjectID, limit, offset int64) ([]*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.Comment{}
	for _, c := range f.comments {
		if c.ParentComment != nil && *c.ParentComment == parent {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Update(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[c.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) mutate(id primitive.ObjectID, fn func(*entity.Comment)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(c)
	return nil
}

func (f *fakeCommentRepo) AddLike(_ context.Context, comment, user primitive.ObjectID) error {
	return f.mutate(comment, func(c *entity.Comment) { c.Likes = addID(c.Likes, user) })
}

func (f *fakeCommentRepo) RemoveLike(_ context.Context, comment, user primitive.ObjectID) error {
	return f.mutate(comment, func(c *entity.Comment) { c.Likes = removeID(c.Likes, user) })
}

func (f *fakeCommentRepo) CountByTweet(_ context.Context, tweet primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.comments {
		if c.Tweet != nil && *c.Tweet == tweet {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentRepo) CountReplies(_ context.Context, parent primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.comments {
		if c.ParentComment != nil && *c.ParentComment == parent {
			n++
		}
	}
	return n, nil
}

type fakeFileRepo struct {
	mu    sync.Mutex
	files map[primitive.ObjectID]*entity.File
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[primitive.ObjectID]*entity.File{}}
}

func (f *fakeFileRepo) Create(_ context.Context, file *entity.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file.ID = primitive.NewObjectID()
	cp := *file
	f.files[file.ID] = &cp
	return nil
}

func (f *fakeFileRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file, ok := f.files[id]; ok {
		cp := *file
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeFileRepo) ListByOwner(_ context.Context, owner primitive.ObjectID, kind entity.FileKind) ([]*entity.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.File{}
	for _, file := range f.files {
		if file.Owner != owner {
			continue
		}
		if kind != "" && file.Kind != kind {
			continue
		}
		cp := *file
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeFileRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.files, id)
	return nil
}

// fakeEnqueuer records every published job.
type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []any
}

func (f *fakeEnqueuer) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, body)
	return nil
}

func (f *fakeEnqueuer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

var (
	_ repo.UserRepository    = (*fakeUserRepo)(nil)
	_ repo.TokenRepository   = (*fakeTokenRepo)(nil)
	_ repo.RoomRepository    = (*fakeRoomRepo)(nil)
	_ repo.MessageRepository = (*fakeMessageRepo)(nil)
	_ repo.TweetRepository   = (*fakeTweetRepo)(nil)
	_ repo.CommentRepository = (*fakeCommentRepo)(nil)
	_ repo.FileRepository    = (*fakeFileRepo)(nil)
	_ EmailEnqueuer          = (*fakeEnqueuer)(nil)
)
