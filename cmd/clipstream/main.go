package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/clipstream/backend/internal/app"
)

func main() {
	// Best effort: a missing .env simply means configuration comes from
	// the real environment.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
