package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"toystore/internal/config"
	"toystore/internal/db"
	"toystore/internal/httpserver"
	cartrepo "toystore/internal/repository/cart"
	catalogrepo "toystore/internal/repository/catalog"
	"toystore/internal/repository/kv"
	userrepo "toystore/internal/repository/user"
	cartsvc "toystore/internal/service/cart"
	catalogsvc "toystore/internal/service/catalog"
	identitysvc "toystore/internal/service/identity"
	sessionsvc "toystore/internal/service/session"
	"toystore/internal/toyapi"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	persistent := kv.NewPostgres(dbpool, "local", logger)

	var sessionStore kv.Store
	if cfg.RedisAddr != "" {
		rdb, err := kv.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer rdb.Close()
		sessionStore = kv.NewRedis(rdb, "toystore:", cfg.SessionTTL, logger)
	} else {
		logger.Printf("REDIS_ADDR not set, keeping session documents in memory")
		sessionStore = kv.NewMemoryWithTTL(cfg.SessionTTL)
	}

	remote := toyapi.New(cfg.ToyAPIBaseURL, cfg.ToyAPITimeout, logger)
	catalogService := catalogsvc.New(catalogrepo.NewDocument(sessionStore, logger), remote, cfg.ToyImageBaseURL, logger)
	identityService := identitysvc.New(userrepo.NewDocument(persistent, logger), logger)
	cartService := cartsvc.New(cartrepo.NewDocument(persistent, logger), catalogService, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		SessionSvc:  sessionsvc.New(),
		CatalogSvc:  catalogService,
		IdentitySvc: identityService,
		CartSvc:     cartService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
