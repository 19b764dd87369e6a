package entity

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileKind string

const (
	FileImage FileKind = "image"
	FileVideo FileKind = "video"
	FileAudio FileKind = "audio"
	FileOther FileKind = "other"
)

// KindFromContentType partitions uploads by their MIME top-level type.
func KindFromContentType(ct string) FileKind {
	switch {
	case strings.HasPrefix(ct, "image/"):
		return FileImage
	case strings.HasPrefix(ct, "video/"):
		return FileVideo
	case strings.HasPrefix(ct, "audio/"):
		return FileAudio
	default:
		return FileOther
	}
}

// File is the metadata record for a blob stored on local disk.
type File struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner        primitive.ObjectID `bson:"owner" json:"owner"`
	OriginalName string             `bson:"originalName" json:"originalName"`
	Path         string             `bson:"path" json:"path"`
	Kind         FileKind           `bson:"kind" json:"kind"`
	Extension    string             `bson:"extension" json:"extension"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func NewFile(owner primitive.ObjectID, originalName, path string, kind FileKind, ext string) *File {
	return &File{
		Owner:        owner,
		OriginalName: originalName,
		Path:         path,
		Kind:         kind,
		Extension:    ext,
		CreatedAt:    time.Now().UTC(),
	}
}
