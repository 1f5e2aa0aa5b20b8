package main

import (
	"context"
	"log"
	"path"
	"time"

	"github.com/jackc/pgx/v5"

	"logwindow/config"
	"logwindow/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect:", err)
	}
	defer conn.Close(context.Background())

	err = database.Migrate(ctx, conn, func(name string) {
		log.Printf("Applied migration: %s", path.Base(name))
	})
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("All migrations completed")
}
