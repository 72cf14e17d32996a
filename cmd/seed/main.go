package main

import (
	"context"
	"log"
	"os"

	"toystore/internal/config"
	"toystore/internal/db"
	"toystore/internal/repository/kv"
	userrepo "toystore/internal/repository/user"
	"toystore/internal/seed"
	identitysvc "toystore/internal/service/identity"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	users := identitysvc.New(userrepo.NewDocument(kv.NewPostgres(pool, "local", logger), logger), logger)
	if err := seed.Apply(ctx, users, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
