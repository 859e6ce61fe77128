package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tiered-subscription-service/internal/config"
	"tiered-subscription-service/internal/domain/model"
	pg "tiered-subscription-service/internal/infra/db/postgres"
	"tiered-subscription-service/internal/infra/security"
)

// Demo credentials inserted by the seed tool. Not for production.
var demoUsers = []struct {
	UserID   string
	Username string
	Password string
}{
	{"u-alice", "alice", "alice-password"},
	{"u-bob", "bob", "bob-password"},
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	fmt.Println("tier catalog:")
	for name, t := range cfg.Tiers {
		fmt.Printf("  - %s (rank=%d, features=%v)\n", name, t.Rank, t.Features)
	}

	if cfg.Database.URL == "" {
		fmt.Println("database.url not set; in-memory mode needs no seeding.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	credStore := pg.NewCredentialStore(pool)
	for _, u := range demoUsers {
		hash, err := security.HashPassword(u.Password)
		if err != nil {
			log.Fatalf("hash password for %q: %v", u.Username, err)
		}
		cred := model.Credential{UserID: u.UserID, Username: u.Username, PasswordHash: hash}
		if err := credStore.SaveCredential(ctx, cred); err != nil {
			log.Fatalf("seed credential %q: %v", u.Username, err)
		}
		fmt.Printf("seeded credential: %s (user_id=%s)\n", u.Username, u.UserID)
	}

	fmt.Println("seeding complete.")
}
