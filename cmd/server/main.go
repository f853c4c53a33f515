package main

import (
	"context"
	"log"

	"github.com/pr-poehali-dev/onlimess/internal/server"
	"github.com/pr-poehali-dev/onlimess/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
