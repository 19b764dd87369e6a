package application

import (
	"context"
	"errors"
	"testing"

	"chirper/internal/domain/entity"
)

func newRoomFixture(t *testing.T) (*RoomService, *fakeUserRepo, *fakeRoomRepo) {
	t.Helper()
	users := newFakeUserRepo()
	rooms := newFakeRoomRepo()
	svc := NewRoomService(rooms, newFakeMessageRepo(), users, testLogger())
	return svc, users, rooms
}

func seedUser(t *testing.T, users *fakeUserRepo, username string) *entity.User {
	t.Helper()
	u := entity.NewUser("Test", "User", username, username+"@example.com", "hash")
	u.Active = true
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func TestCreatePrivateRoomWithInvitee(t *testing.T) {
	svc, users, _ := newRoomFixture(t)
	ctx := context.Background()

	creator := seedUser(t, users, "creator")
	invitee := seedUser(t, users, "invitee")

	room, err := svc.Create(ctx, creator, CreateRoomInput{
		Name:      "plans",
		IsPublic:  false,
		UserToAdd: &invitee.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !room.IsPrivate() || !room.IsCreator(creator.ID) {
		t.Error("room must be private with the creator recorded")
	}
	if !room.HasSubscriber(creator.ID) || !room.HasSubscriber(invitee.ID) {
		t.Error("both members must be subscribed on create")
	}
	if !room.IsOnline(creator.ID) || !room.IsOnline(invitee.ID) {
		t.Error("both members must be online on create")
	}

	storedCreator, _ := users.GetByID(ctx, creator.ID)
	if !storedCreator.IsSubscribedTo(room.ID) {
		t.Error("subscription backlink missing on creator")
	}
}

func TestCreatePublicRoomHasNoCreator(t *testing.T) {
	svc, users, _ := newRoomFixture(t)
	creator := seedUser(t, users, "creator")

	room, err := svc.Create(context.Background(), creator, CreateRoomInput{Name: "lobby", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.IsPrivate() {
		t.Error("public room must not record a creator")
	}
	if !room.HasSubscriber(creator.ID) {
		t.Error("creator still subscribes to the public room")
	}
}

func TestRenamePrivateRoomCreatorOnly(t *testing.T) {
	svc, users, _ := newRoomFixture(t)
	ctx := context.Background()

	creator := seedUser(t, users, "creator")
	other := seedUser(t, users, "other")

	room, err := svc.Create(ctx, creator, CreateRoomInput{Name: "plans", UserToAdd: &other.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Rename(ctx, other, room.ID, "hijacked"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("non-creator rename err = %v, want %v", err, ErrNotOwner)
	}
	renamed, err := svc.Rename(ctx, creator, room.ID, "new plans")
	if err != nil {
		t.Fatalf("creator rename: %v", err)
	}
	if renamed.Name != "new plans" {
		t.Errorf("name = %q", renamed.Name)
	}
}

func TestSubscribePrivateRoomCreatorOnly(t *testing.T) {
	svc, users, _ := newRoomFixture(t)
	ctx := context.Background()

	creator := seedUser(t, users, "creator")
	outsider := seedUser(t, users, "outsider")

	room, err := svc.Create(ctx, creator, CreateRoomInput{Name: "plans"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Subscribe(ctx, outsider, room.ID, outsider.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("self-join private room err = %v, want %v", err, ErrNotOwner)
	}
	joined, err := svc.Subscribe(ctx, creator, room.ID, outsider.ID)
	if err != nil {
		t.Fatalf("creator invite: %v", err)
	}
	if !joined.HasSubscriber(outsider.ID) {
		t.Error("invitee not subscribed")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	svc, users, _ := newRoomFixture(t)
	ctx := context.Background()

	creator := seedUser(t, users, "creator")
	stranger := seedUser(t, users, "stranger")

	room, err := svc.Create(ctx, creator, CreateRoomInput{Name: "lobby", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Leaving a room you never joined returns the room unchanged.
	got, err := svc.Unsubscribe(ctx, stranger, room.ID)
	if err != nil {
		t.Fatalf("unsubscribe stranger: %v", err)
	}
	if len(got.Subscribers) != len(room.Subscribers) {
		t.Error("unsubscribe of a non-member must not change the room")
	}

	left, err := svc.Unsubscribe(ctx, creator, room.ID)
	if err != nil {
		t.Fatalf("unsubscribe member: %v", err)
	}
	if left.HasSubscriber(creator.ID) {
		t.Error("member still subscribed after unsubscribe")
	}
}
