package main

import (
	"context"
	"flag"
	"log"
	"os"

	"electrostore/internal/config"
	"electrostore/internal/db"
	"electrostore/internal/importer"
	productrepo "electrostore/internal/repository/product"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open %s: %v", filePath, err)
	}
	defer f.Close()

	repo := productrepo.NewPostgres(pool, nil)
	sum, err := importer.NewCSVImporter(f, repo).Run(ctx)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	log.Printf("import done: %d imported, %d skipped", sum.Imported, sum.Skipped)
}
