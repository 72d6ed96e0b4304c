package main

import (
	"os"

	"codeberg.org/codewithacp/server/internal/config"
	"codeberg.org/codewithacp/server/internal/database"
	"codeberg.org/codewithacp/server/internal/logger"
)

func main() {
	flags, err := config.ParseMigrateFlags(os.Args[1:])
	if err != nil {
		logger.Fatal("invalid arguments", "error", err)
	}

	databaseURL, err := config.LoadDatabaseURL()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	logger.Info("running migrations", "direction", flags.Direction, "steps", flags.Steps)

	if err := database.Migrate(databaseURL, flags.Direction, flags.Steps); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	logger.Info("migrations complete")
}
