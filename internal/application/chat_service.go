package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
)

// ChatService backs the websocket gateway. Every handler resolves the acting
// user from the socket id stamped at connect time, mutates room state in the
// store, and returns whatever the gateway must broadcast.
type ChatService struct {
	Users    repo.UserRepository
	Rooms    repo.RoomRepository
	Messages repo.MessageRepository
	Logger   *logrus.Logger
}

func NewChatService(users repo.UserRepository, rooms repo.RoomRepository, messages repo.MessageRepository, logger *logrus.Logger) *ChatService {
	return &ChatService{Users: users, Rooms: rooms, Messages: messages, Logger: logger}
}

// Connect binds the socket id to the user identified by the bearer token's
// subject.
func (s *ChatService) Connect(ctx context.Context, userID primitive.ObjectID, socketID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.Users.SetSocketID(ctx, u.ID, socketID); err != nil {
		return nil, err
	}
	u.SocketID = socketID
	return u, nil
}

// Disconnect clears the socket binding and sweeps the user out of every
// online list. It returns the rooms that lost the user so the gateway can
// refresh their presence views.
func (s *ChatService) Disconnect(ctx context.Context, socketID string) ([]primitive.ObjectID, error) {
	u, err := s.Users.GetBySocketID(ctx, socketID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	rooms, err := s.Rooms.RemoveOnlineEverywhere(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.Users.SetSocketID(ctx, u.ID, ""); err != nil {
		return nil, err
	}
	return rooms, nil
}

// EnterRoom marks the user online in the room. Non-subscribers are rejected
// and the online list stays untouched.
func (s *ChatService) EnterRoom(ctx context.Context, socketID string, roomID primitive.ObjectID) (*entity.Room, error) {
	u, room, err := s.resolve(ctx, socketID, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasSubscriber(u.ID) {
		return nil, ErrNotSubscriber
	}
	if err := s.Rooms.AddOnline(ctx, roomID, u.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.room(ctx, roomID)
}

func (s *ChatService) LeaveRoom(ctx context.Context, socketID string, roomID primitive.ObjectID) (*entity.Room, error) {
	u, _, err := s.resolve(ctx, socketID, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.Rooms.RemoveOnline(ctx, roomID, u.ID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.room(ctx, roomID)
}

// NewMessage persists a message from the socket's user and links it to the
// room document.
func (s *ChatService) NewMessage(ctx context.Context, socketID string, roomID primitive.ObjectID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	u, room, err := s.resolve(ctx, socketID, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasSubscriber(u.ID) {
		return nil, ErrNotSubscriber
	}
	m := entity.NewMessage(u.ID, roomID, body)
	if err := s.Messages.Create(ctx, m); err != nil {
		return nil, err
	}
	if err := s.Rooms.PushMessage(ctx, roomID, m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMessage requires room membership only, so subscribers can moderate
// each other's messages.
func (s *ChatService) DeleteMessage(ctx context.Context, socketID string, roomID, messageID primitive.ObjectID) (*entity.Message, error) {
	u, room, err := s.resolve(ctx, socketID, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasSubscriber(u.ID) {
		return nil, ErrNotSubscriber
	}
	m, err := s.Messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if m.Room != roomID {
		return nil, ErrNotFound
	}
	if err := s.Messages.Delete(ctx, messageID); err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.Rooms.PullMessage(ctx, roomID, messageID); err != nil {
		return nil, err
	}
	return m, nil
}

// EditMessage additionally requires authorship.
func (s *ChatService) EditMessage(ctx context.Context, socketID string, roomID, messageID primitive.ObjectID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	u, room, err := s.resolve(ctx, socketID, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasSubscriber(u.ID) {
		return nil, ErrNotSubscriber
	}
	m, err := s.Messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if m.Room != roomID {
		return nil, ErrNotFound
	}
	if !m.IsAuthor(u.ID) {
		return nil, ErrNotAuthor
	}
	m.Body = body
	if err := s.Messages.Update(ctx, m); err != nil {
		return nil, mapNotFound(err)
	}
	return m, nil
}

// OnlineUsers resolves the room's online id list into user records for the
// presence payload.
func (s *ChatService) OnlineUsers(ctx context.Context, roomID primitive.ObjectID) (*entity.Room, []*entity.User, error) {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	users := make([]*entity.User, 0, len(room.Online))
	for _, id := range room.Online {
		u, err := s.Users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		users = append(users, u)
	}
	return room, users, nil
}

func (s *ChatService) resolve(ctx context.Context, socketID string, roomID primitive.ObjectID) (*entity.User, *entity.Room, error) {
	u, err := s.Users.GetBySocketID(ctx, socketID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	return u, room, nil
}

func (s *ChatService) room(ctx context.Context, id primitive.ObjectID) (*entity.Room, error) {
	room, err := s.Rooms.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return room, nil
}
