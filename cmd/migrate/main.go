// Command migrate applies the database schema. It is intended to run once
// per deployment, before the server starts.
package main

import (
	"log"

	"github.com/assetvault/server/internal/shared/config"
	"github.com/assetvault/server/internal/shared/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		_ = database.Close(db)
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Migrations applied")
}
