package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chirper/internal/application"
	"chirper/internal/domain/entity"
	"chirper/internal/interface/middleware"
	"chirper/pkg/response"
)

type UploadHandler struct {
	Uploads *application.UploadService
	Logger  *logrus.Logger
}

func NewUploadHandler(uploads *application.UploadService, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{Uploads: uploads, Logger: logger}
}

// Create accepts a multipart "file" part and stores it on local disk.
func (h *UploadHandler) Create(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	rec, err := h.Uploads.Save(c.Request.Context(), middleware.CurrentUser(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("upload failed")
		fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, rec, "file uploaded", nil)
}

// List returns the principal's uploads; ?kind= narrows to one MIME kind.
func (h *UploadHandler) List(c *gin.Context) {
	kind := entity.FileKind(c.Query("kind"))
	switch kind {
	case "", entity.FileImage, entity.FileVideo, entity.FileAudio, entity.FileOther:
	default:
		response.Fail(c, http.StatusUnprocessableEntity, "unknown kind", nil)
		return
	}
	files, err := h.Uploads.List(c.Request.Context(), middleware.CurrentUser(c).ID, kind)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, files, "", nil)
}

func (h *UploadHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Uploads.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "file deleted", nil)
}
