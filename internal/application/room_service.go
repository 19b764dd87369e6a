package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
)

// RoomService manages chat rooms over REST: creation, membership and the
// message history. Live presence transitions go through ChatService.
type RoomService struct {
	Rooms    repo.RoomRepository
	Messages repo.MessageRepository
	Users    repo.UserRepository
	Logger   *logrus.Logger
}

func NewRoomService(rooms repo.RoomRepository, messages repo.MessageRepository, users repo.UserRepository, logger *logrus.Logger) *RoomService {
	return &RoomService{Rooms: rooms, Messages: messages, Users: users, Logger: logger}
}

type CreateRoomInput struct {
	Name      string
	IsPublic  bool
	UserToAdd *primitive.ObjectID
}

// Create builds a room; private rooms record the creator. The creator is
// subscribed and marked online right away, and so is the optional invitee.
func (s *RoomService) Create(ctx context.Context, creator *entity.User, in CreateRoomInput) (*entity.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyBody
	}

	var owner *primitive.ObjectID
	if !in.IsPublic {
		id := creator.ID
		owner = &id
	}
	room := entity.NewRoom(name, owner)
	if err := s.Rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	members := []primitive.ObjectID{creator.ID}
	if in.UserToAdd != nil {
		if _, err := s.Users.GetByID(ctx, *in.UserToAdd); err != nil {
			return nil, mapNotFound(err)
		}
		members = append(members, *in.UserToAdd)
	}
	for _, m := range members {
		if err := s.Rooms.AddSubscriber(ctx, room.ID, m); err != nil {
			return nil, err
		}
		if err := s.Rooms.AddOnline(ctx, room.ID, m); err != nil {
			return nil, err
		}
		if err := s.Users.AddSubscription(ctx, m, room.ID); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, room.ID)
}

func (s *RoomService) Get(ctx context.Context, id primitive.ObjectID) (*entity.Room, error) {
	room, err := s.Rooms.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context, limit, offset int64) ([]*entity.Room, error) {
	return s.Rooms.List(ctx, limit, offset)
}

// Rename is creator-only for private rooms; public rooms may be renamed by
// any subscriber.
func (s *RoomService) Rename(ctx context.Context, principal *entity.User, id primitive.ObjectID, name string) (*entity.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyBody
	}
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(room, principal); err != nil {
		return nil, err
	}
	if err := s.Rooms.Rename(ctx, id, name); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id)
}

// Delete removes the room, its messages and the membership backlinks.
func (s *RoomService) Delete(ctx context.Context, principal *entity.User, id primitive.ObjectID) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeMutation(room, principal); err != nil {
		return err
	}
	if err := s.Messages.DeleteByRoom(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("room_id", id.Hex()).Warn("message cleanup failed")
	}
	for _, sub := range room.Subscribers {
		if err := s.Users.RemoveSubscription(ctx, sub, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", sub.Hex()).Warn("subscription cleanup failed")
		}
	}
	return mapNotFound(s.Rooms.Delete(ctx, id))
}

func (s *RoomService) authorizeMutation(room *entity.Room, principal *entity.User) error {
	if principal.IsAdmin() {
		return nil
	}
	if room.IsPrivate() {
		if !room.IsCreator(principal.ID) {
			return ErrNotOwner
		}
		return nil
	}
	if !room.HasSubscriber(principal.ID) {
		return ErrNotSubscriber
	}
	return nil
}

// Subscribe adds the user to the room's subscriber list. Private rooms only
// accept new members through their creator.
func (s *RoomService) Subscribe(ctx context.Context, principal *entity.User, id primitive.ObjectID, user primitive.ObjectID) (*entity.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.IsPrivate() && !room.IsCreator(principal.ID) && !principal.IsAdmin() {
		return nil, ErrNotOwner
	}
	if _, err := s.Users.GetByID(ctx, user); err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.Rooms.AddSubscriber(ctx, id, user); err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.Users.AddSubscription(ctx, user, id); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id)
}

// Unsubscribe is idempotent: leaving a room you were never in returns the
// room unchanged.
func (s *RoomService) Unsubscribe(ctx context.Context, principal *entity.User, id primitive.ObjectID) (*entity.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.HasSubscriber(principal.ID) {
		return room, nil
	}
	if err := s.Rooms.RemoveSubscriber(ctx, id, principal.ID); err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.Rooms.RemoveOnline(ctx, id, principal.ID); err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.Users.RemoveSubscription(ctx, principal.ID, id); err != nil {
		return nil, mapNotFound(err)
	}
	return s.Get(ctx, id)
}

// ListMessages pages through a room's history; subscribers only.
func (s *RoomService) ListMessages(ctx context.Context, principal *entity.User, id primitive.ObjectID, limit, offset int64) ([]*entity.Message, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.HasSubscriber(principal.ID) && !principal.IsAdmin() {
		return nil, ErrNotSubscriber
	}
	return s.Messages.ListByRoom(ctx, id, limit, offset)
}
