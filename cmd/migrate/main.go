// Command migrate applies the embedded schema migrations and exits.
package main

import (
	"context"
	"log"
	"time"

	"taskify/internal/platform/config"
	"taskify/internal/platform/database"
)

func main() {
	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("ERROR: invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, dialect, err := database.Open(ctx, cfg.DSN(), 1)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, dialect); err != nil {
		log.Fatalf("ERROR: migrate: %v", err)
	}
	log.Println("INFO: migrations up to date")
}
