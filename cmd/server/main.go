package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"gpdf/internal/artifact"
	"gpdf/internal/converter"
	"gpdf/internal/docstore"
	"gpdf/internal/llm"
	"gpdf/internal/qa"
	"gpdf/internal/quota"
	"gpdf/internal/summarizer"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // .env is optional, plain env vars work too

	cfg := loadConfig()
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	documents, err := docstore.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to init document store: %v", err)
	}
	defer documents.Close()

	artifacts, err := artifact.NewStore(cfg.DownloadsDir)
	if err != nil {
		log.Fatalf("Failed to init artifact store: %v", err)
	}

	client := llm.NewClient(cfg.OpenAIKey, cfg.Model, cfg.LLMTimeout)
	conv := converter.New(cfg.CJKFontPath, cfg.CJKFontName)
	if cfg.CJKFontPath != "" && !conv.HasCJKFont() {
		log.Printf("Warning: CJK font %s not readable, falling back to default faces", cfg.CJKFontPath)
	}

	srv := &Server{
		cfg:        cfg,
		quota:      quota.NewTracker(cfg.DailyLimit),
		summarizer: summarizer.New(client),
		qa:         qa.NewEngine(client, documents),
		converter:  conv,
		documents:  documents,
		artifacts:  artifacts,
	}

	// Background sweepers: stale quota sessions and aged-out downloads.
	ctx := context.Background()
	srv.quota.StartCleanupTicker(ctx, time.Hour)
	artifacts.StartCleanupTicker(ctx, time.Hour, 24*time.Hour)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/summarize", srv.handleSummarize)
	mux.HandleFunc("/api/convert", srv.handleConvert)
	mux.HandleFunc("/api/download/", srv.handleDownload)
	mux.HandleFunc("/api/usage/", srv.handleUsage)
	mux.HandleFunc("/api/qa", srv.handleQA)
	mux.HandleFunc("/api/documents/search", srv.handleSearch)

	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/", srv.handleRoot)

	log.Printf("GPdf server starting on http://localhost:%s (daily limit %d, max %d pages)",
		cfg.Port, cfg.DailyLimit, cfg.MaxPages)
	if err := http.ListenAndServe(":"+cfg.Port, srv.corsMiddleware(mux)); err != nil {
		log.Fatal(err)
	}
}
