package main

import (
	"context"
	"flag"
	"fmt"

	"codeberg.org/codewithacp/server/codewithacp/identity"
	"codeberg.org/codewithacp/server/internal/auth"
	"codeberg.org/codewithacp/server/internal/config"
	"codeberg.org/codewithacp/server/internal/database"
	"codeberg.org/codewithacp/server/internal/logger"
)

// prints a bearer token for a local test user, creating the user on first run
func main() {
	email := flag.String("email", "test@codewithacp.dev", "email of the test user")
	flag.Parse()

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	if cfg.IsProduction() {
		logger.Fatal("refusing to mint test tokens in production")
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.SupabaseConnString)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	store := identity.NewStore(db)

	user, err := store.GetUserByEmail(ctx, *email)
	if err != nil {
		logger.Fatal("failed to look up test user", "error", err)
	}

	if user == nil {
		name := "Test User"

		user, err = store.CreateUser(ctx, &identity.User{Name: &name, Email: *email})
		if err != nil {
			logger.Fatal("failed to create test user", "error", err)
		}

		fmt.Printf("created test user: %s (id: %s)\n", user.Email, user.ID)
	} else {
		fmt.Printf("using existing test user (id: %s)\n", user.ID)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		logger.Fatal("failed to create token issuer", "error", err)
	}

	token, err := tokens.Issue(user.ID, user.Email)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}

	fmt.Printf("\ntest token:\n%s\n\n", token)
	fmt.Printf("export TEST_TOKEN=\"%s\"\n", token)
}
