package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"toystore/internal/config"
	"toystore/internal/db"
	"toystore/internal/importer"
	"toystore/internal/repository/kv"
	userrepo "toystore/internal/repository/user"
	identitysvc "toystore/internal/service/identity"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a users CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	users := identitysvc.New(userrepo.NewDocument(kv.NewPostgres(pool, "local", nil), nil), nil)
	imp := importer.NewCSVImporter(f, users)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed after %d users: %v", res.Imported, err)
	}

	fmt.Printf("Imported %d users (%d already present) in %s\n", res.Imported, res.Skipped, time.Since(start).Truncate(time.Millisecond))
}
