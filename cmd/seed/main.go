package main

import (
	"context"
	"log"
	"time"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/config"
	"barbearia-backend/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	seeded, err := catalog.NewManager(catalog.NewRepository(cols.Services)).SeedIfEmpty(ctx)
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}
	if seeded == 0 {
		log.Println("catalog not empty, nothing seeded")
		return
	}
	log.Printf("seed completed: %d services", seeded)
}
