package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
	"chirper/pkg/helpers"
)

// UserService covers the user directory: CRUD, search, the follow graph and
// avatar upload.
type UserService struct {
	Users        repo.UserRepository
	Tokens       repo.TokenRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	GCS          *storage.Client
	GCSBucket    string
}

func NewUserService(users repo.UserRepository, tokens repo.TokenRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, gcs *storage.Client, gcsBucket string) *UserService {
	return &UserService{
		Users:        users,
		Tokens:       tokens,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
	}
}

func (s *UserService) List(ctx context.Context, limit, offset int64) ([]*entity.User, error) {
	return s.Users.List(ctx, limit, offset)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateUserInput struct {
	FirstName string
	LastName  string
}

// Update mutates the target's profile; only the owner or an admin may do so.
func (s *UserService) Update(ctx context.Context, principal *entity.User, target primitive.ObjectID, in UpdateUserInput) (*entity.User, error) {
	if principal.ID != target && !principal.IsAdmin() {
		return nil, ErrNotOwner
	}
	u, err := s.Get(ctx, target)
	if err != nil {
		return nil, err
	}
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if err := s.IndexUser(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Warn("user index failed")
	}
	return u, nil
}

// Delete removes the account and its purpose tokens. Owner or admin only.
func (s *UserService) Delete(ctx context.Context, principal *entity.User, target primitive.ObjectID) error {
	if principal.ID != target && !principal.IsAdmin() {
		return ErrNotOwner
	}
	if err := s.Users.Delete(ctx, target); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.Tokens.DeleteByUser(ctx, target); err != nil {
		s.Logger.WithError(err).WithField("user_id", target.Hex()).Warn("token cleanup failed")
	}
	s.deleteFromIndex(ctx, target)
	return nil
}

// Follow appends the principal to the target's follower list; $addToSet keeps
// it idempotent.
func (s *UserService) Follow(ctx context.Context, principal *entity.User, target primitive.ObjectID) (*entity.User, error) {
	if principal.ID == target {
		return nil, ErrNotOwner
	}
	if err := s.Users.AddFollower(ctx, target, principal.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, target)
}

func (s *UserService) Unfollow(ctx context.Context, principal *entity.User, target primitive.ObjectID) (*entity.User, error) {
	if err := s.Users.RemoveFollower(ctx, target, principal.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, target)
}

// IndexUser mirrors the profile into Elasticsearch for directory search.
func (s *UserService) IndexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":        u.ID.Hex(),
		"username":  u.Username,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"createdAt": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID.Hex()).Warn("es index response error")
	}
	return nil
}

func (s *UserService) deleteFromIndex(ctx context.Context, id primitive.ObjectID) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id.Hex()}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", id.Hex()).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over username and names.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "firstName", "lastName"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// UploadAvatar stores the avatar in GCS and saves its public URL on the user.
func (s *UserService) UploadAvatar(ctx context.Context, principal *entity.User, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("avatar storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", principal.ID.Hex(), uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	principal.AvatarURL = url
	if err := s.Users.Update(ctx, principal); err != nil {
		return "", err
	}
	return url, nil
}
