package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"chirper/config"
	"chirper/internal/application"
	"chirper/internal/domain/entity"
	"chirper/internal/domain/repository"
	"chirper/internal/infrastructure/mongodb"
	"chirper/pkg/helpers"
)

// Seed creates a handful of active demo accounts and a public lobby room for
// local development. Existing records are left alone, so it is safe to rerun.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("mongodb connect: %v", err)
	}
	defer func() { _ = db.Close(ctx) }()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	rooms := mongodb.NewRoomRepository(db)

	demo := []struct {
		first, last, username, email string
	}{
		{"Ada", "Lovelace", "ada", "ada@example.com"},
		{"Alan", "Turing", "alan", "alan@example.com"},
		{"Grace", "Hopper", "grace", "grace@example.com"},
	}

	hash, err := helpers.HashPassword("Passw0rd")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	seeded := []*entity.User{}
	for _, d := range demo {
		if existing, err := users.GetByUsername(ctx, d.username); err == nil {
			seeded = append(seeded, existing)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("lookup %s: %v", d.username, err)
		}
		u := entity.NewUser(d.first, d.last, d.username, d.email, hash)
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create %s: %v", d.username, err)
		}
		if err := users.SetActive(ctx, u.ID); err != nil {
			log.Fatalf("activate %s: %v", d.username, err)
		}
		seeded = append(seeded, u)
		log.Printf("created user %s (%s)", d.username, u.ID.Hex())
	}

	roomSvc := application.NewRoomService(rooms, mongodb.NewMessageRepository(db), users, helpers.NewLogger(cfg.AppName, cfg.Env))

	existing, err := rooms.List(ctx, 1, 0)
	if err != nil {
		log.Fatalf("list rooms: %v", err)
	}
	if len(existing) == 0 {
		room, err := roomSvc.Create(ctx, seeded[0], application.CreateRoomInput{Name: "lobby", IsPublic: true})
		if err != nil {
			log.Fatalf("create lobby: %v", err)
		}
		for _, u := range seeded[1:] {
			if _, err := roomSvc.Subscribe(ctx, u, room.ID, u.ID); err != nil {
				log.Fatalf("subscribe %s: %v", u.Username, err)
			}
		}
		log.Printf("created room lobby (%s)", room.ID.Hex())
	}

	log.Println("seed complete")
}
