// Command reindex drops and rebuilds the Elasticsearch post index from the database.
package main

import (
	"context"
	"os"

	"travelblog/internal/config"
	"travelblog/internal/db"
	"travelblog/internal/logging"
	"travelblog/internal/repository"
	"travelblog/internal/search"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if !cfg.SearchEnabled() {
		logger.Error("ELASTICSEARCH_URL is not set")
		os.Exit(1)
	}

	ctx := context.Background()

	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database init", "error", err)
		os.Exit(1)
	}
	defer db.Close(gormDB)

	es, err := search.NewElastic(search.Options{
		URL:      cfg.ElasticsearchURL,
		Username: cfg.ElasticsearchUsername,
		Password: cfg.ElasticsearchPassword,
		Index:    cfg.ElasticsearchIndex,
	})
	if err != nil {
		logger.Error("elasticsearch init", "error", err)
		os.Exit(1)
	}

	posts, err := repository.NewPostRepository(gormDB).List(ctx, repository.ListFilter{})
	if err != nil {
		logger.Error("load posts", "error", err)
		os.Exit(1)
	}

	// Documents indexed under an older mapping would not match substring queries.
	if err := es.Recreate(ctx); err != nil {
		logger.Error("recreate index", "error", err)
		os.Exit(1)
	}

	n, err := search.Rebuild(ctx, es, posts)
	if err != nil {
		logger.Error("reindex failed", "indexed", n, "error", err)
		os.Exit(1)
	}
	logger.Info("reindex completed", "indexed", n, "index", cfg.ElasticsearchIndex)
}
