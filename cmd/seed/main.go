package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clickarena/internal/model"
	redisstorage "clickarena/internal/storage/redis"
)

// seed creates an identity with a zero score directly in the Redis store.
// Accounts are normally provisioned by the external account system; this
// tool exists for local development and demos.
func main() {
	redisURL := flag.String("redis-url", "redis://localhost:6379", "Redis connection URL")
	id := flag.String("id", "", "Identity id (default: random)")
	username := flag.String("username", "", "Username (required)")
	password := flag.String("password", "", "Password to hash (required)")
	role := flag.String("role", "player", "Role: player or admin")
	blocked := flag.Bool("blocked", false, "Create the identity blocked")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "-username and -password are required")
		os.Exit(1)
	}

	r := model.Role(*role)
	if !r.Valid() {
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(1)
	}

	identityID := model.IdentityID(*id)
	if identityID == "" {
		identityID = model.IdentityID(randomID())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %s\n", err)
		os.Exit(1)
	}

	cfg := redisstorage.DefaultConfig()
	cfg.URL = *redisURL
	store, err := redisstorage.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to redis: %s\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := store.GetIdentityByUsername(ctx, *username); err == nil {
		fmt.Fprintf(os.Stderr, "%s: %q\n", model.ErrUsernameExists, *username)
		os.Exit(1)
	}

	identity := &model.Identity{
		ID:           identityID,
		Username:     *username,
		Role:         r,
		Blocked:      *blocked,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := store.SaveIdentity(ctx, identity); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save identity: %s\n", err)
		os.Exit(1)
	}
	if err := store.SetScore(ctx, &model.ScoreRecord{OwnerID: identity.ID}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise score: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("created identity %s (%s)\n", identity.ID, identity.Username)
}

func randomID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
