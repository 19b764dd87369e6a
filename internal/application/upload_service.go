package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
)

// UploadService stores media on local disk, partitioned by MIME kind, with a
// metadata document per blob.
type UploadService struct {
	Files   repo.FileRepository
	Logger  *logrus.Logger
	BaseDir string
}

func NewUploadService(files repo.FileRepository, logger *logrus.Logger, baseDir string) *UploadService {
	return &UploadService{Files: files, Logger: logger, BaseDir: baseDir}
}

// Save writes the blob to <baseDir>/<kind>/<unixnano>-<sanitized name> and
// records its metadata. The timestamp prefix keeps repeated uploads of the
// same filename from colliding.
func (s *UploadService) Save(ctx context.Context, owner *entity.User, r io.Reader, originalName, contentType string) (*entity.File, error) {
	name := sanitizeFilename(originalName)
	if name == "" {
		return nil, ErrEmptyBody
	}
	kind := entity.KindFromContentType(contentType)

	dir := filepath.Join(s.BaseDir, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	stored := fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)
	path := filepath.Join(dir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	f := entity.NewFile(owner.ID, originalName, path, kind, strings.TrimPrefix(filepath.Ext(name), "."))
	if err := s.Files.Create(ctx, f); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return f, nil
}

func (s *UploadService) Get(ctx context.Context, id primitive.ObjectID) (*entity.File, error) {
	f, err := s.Files.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return f, nil
}

// List returns the owner's uploads, optionally narrowed to one kind. An
// empty kind means all kinds.
func (s *UploadService) List(ctx context.Context, owner primitive.ObjectID, kind entity.FileKind) ([]*entity.File, error) {
	return s.Files.ListByOwner(ctx, owner, kind)
}

// Delete removes both the blob and its metadata; owner or admin only. A
// missing blob on disk is logged but does not fail the delete.
func (s *UploadService) Delete(ctx context.Context, principal *entity.User, id primitive.ObjectID) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if f.Owner != principal.ID && !principal.IsAdmin() {
		return ErrNotOwner
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		s.Logger.WithError(err).WithField("path", f.Path).Warn("blob removal failed")
	}
	return mapNotFound(s.Files.Delete(ctx, id))
}

// sanitizeFilename strips any path components and keeps a conservative
// character set.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
