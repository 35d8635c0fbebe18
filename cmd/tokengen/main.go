package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"clickarena/internal/dependencies/clock"
	"clickarena/internal/model"
	"clickarena/internal/services/token"
)

// tokengen mints an access token for a given identity. It is an operator
// tool: the production account system issues tokens with the same shared
// secret.
func main() {
	id := flag.String("id", "", "Identity id to mint a token for (required)")
	role := flag.String("role", "player", "Role claim: player or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	issuer := flag.String("issuer", "clickarena", "Token issuer")
	flag.Parse()

	secret := os.Getenv("CLICKARENA_TOKEN_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "CLICKARENA_TOKEN_SECRET is required")
		os.Exit(1)
	}
	if *id == "" {
		fmt.Fprintln(os.Stderr, "-id is required")
		os.Exit(1)
	}

	r := model.Role(*role)
	if !r.Valid() {
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(1)
	}

	svc := token.New(token.Config{
		Secret: []byte(secret),
		Issuer: *issuer,
		TTL:    *ttl,
	}, clock.New())

	minted, err := svc.Issue(model.IdentityID(*id), r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mint token: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(minted)
}
