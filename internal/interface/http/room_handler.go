package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/application"
	"chirper/internal/interface/middleware"
	"chirper/pkg/response"
	"chirper/pkg/validation"
)

type RoomHandler struct {
	Rooms  *application.RoomService
	Logger *logrus.Logger
}

func NewRoomHandler(rooms *application.RoomService, logger *logrus.Logger) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Logger: logger}
}

type createRoomRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=64"`
	IsPublic  bool   `json:"isPublic"`
	UserToAdd string `json:"userToAdd"`
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	in := application.CreateRoomInput{Name: req.Name, IsPublic: req.IsPublic}
	if req.UserToAdd != "" {
		id, err := primitive.ObjectIDFromHex(req.UserToAdd)
		if err != nil {
			response.Fail(c, http.StatusUnprocessableEntity, application.ErrInvalidID.Error(), nil)
			return
		}
		in.UserToAdd = &id
	}
	room, err := h.Rooms.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, room, "room created", nil)
}

func (h *RoomHandler) List(c *gin.Context) {
	limit, offset := paginate(c)
	rooms, err := h.Rooms.List(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, rooms, "", gin.H{"limit": limit, "offset": offset})
}

func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.Rooms.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, room, "", nil)
}

type renameRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

func (h *RoomHandler) Rename(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req renameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, "invalid request body", validation.ToDetails(err))
		return
	}
	room, err := h.Rooms.Rename(c.Request.Context(), middleware.CurrentUser(c), id, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, room, "room renamed", nil)
}

func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Rooms.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "room deleted", nil)
}

type subscribeRequest struct {
	UserID string `json:"userId"`
}

// Subscribe adds a member: the principal themselves by default, or the user
// named in the body when a private room's creator invites someone.
func (h *RoomHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	principal := middleware.CurrentUser(c)
	member := principal.ID

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.UserID != "" {
		parsed, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			response.Fail(c, http.StatusUnprocessableEntity, application.ErrInvalidID.Error(), nil)
			return
		}
		member = parsed
	}

	room, err := h.Rooms.Subscribe(c.Request.Context(), principal, id, member)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, room, "subscribed", nil)
}

func (h *RoomHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.Rooms.Unsubscribe(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, room, "unsubscribed", nil)
}

func (h *RoomHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := paginate(c)
	messages, err := h.Rooms.ListMessages(c.Request.Context(), middleware.CurrentUser(c), id, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, messages, "", gin.H{"limit": limit, "offset": offset})
}
