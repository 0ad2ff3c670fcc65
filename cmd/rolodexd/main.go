package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/quietfoundry/rolodex/embedder"
	googleembedder "github.com/quietfoundry/rolodex/embedder/google"
	openaiembedder "github.com/quietfoundry/rolodex/embedder/openai"
	"github.com/quietfoundry/rolodex/extractor"
	anthropicextractor "github.com/quietfoundry/rolodex/extractor/anthropic"
	openaiextractor "github.com/quietfoundry/rolodex/extractor/openai"
	"github.com/quietfoundry/rolodex/internal/service/knowledge"
	"github.com/quietfoundry/rolodex/server"
	httpserver "github.com/quietfoundry/rolodex/server/http"
	"github.com/quietfoundry/rolodex/store"
	memorystore "github.com/quietfoundry/rolodex/store/memory"
	postgresstore "github.com/quietfoundry/rolodex/store/postgres"
	sqlitestore "github.com/quietfoundry/rolodex/store/sqlite"
)

var (
	cfg struct {
		// Server config
		Address            string        `help:"Listen address" env:"ADDRESS" default:":8080"`
		UserHeader         string        `help:"Header carrying the user identifier" env:"USER_HEADER" default:"X-User-Id"`
		ConversationHeader string        `help:"Header carrying the conversation identifier" env:"CONVERSATION_HEADER" default:"X-Conversation-Id"`
		UpstreamTimeout    time.Duration `help:"Bound on per-request upstream calls" env:"UPSTREAM_TIMEOUT" default:"30s"`

		// Store config
		Store         string `help:"Record store backend: postgres, sqlite, or memory" env:"STORE" default:"memory"`
		StoreLocation string `help:"Postgres DSN or sqlite path for the record store" env:"STORE_LOCATION" default:""`

		// Embedder config
		Embedder       string `help:"Embedding provider: openai or google" env:"EMBEDDER" default:"openai"`
		EmbedderApiKey string `help:"API key for the embedding provider" env:"EMBEDDER_API_KEY" default:""`
		EmbedderModel  string `help:"Model identifier for vector embeddings" env:"EMBEDDER_MODEL" default:"text-embedding-3-small"`

		// Extractor config
		Extractor       string `help:"Field extraction provider: openai, anthropic, or none" env:"EXTRACTOR" default:"none"`
		ExtractorApiKey string `help:"API key for the extraction provider" env:"EXTRACTOR_API_KEY" default:""`
		ExtractorModel  string `help:"Model identifier for field extraction" env:"EXTRACTOR_MODEL" default:"gpt-4o-mini"`
	}
)

func main() {
	// Parse inputs
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create record store
	var st store.Store
	switch cfg.Store {
	case "postgres":
		st = postgresstore.NewStore(store.WithLocation(cfg.StoreLocation))
	case "sqlite":
		st = sqlitestore.NewStore(store.WithLocation(cfg.StoreLocation))
	default:
		st = memorystore.NewStore()
	}

	// Create embedder
	var emb embedder.Embedder
	switch cfg.Embedder {
	case "google":
		emb = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderApiKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	default:
		emb = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderApiKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	}

	// Create optional field extractor
	var ext extractor.Extractor
	switch cfg.Extractor {
	case "openai":
		ext = openaiextractor.NewExtractor(
			extractor.WithApiKey(cfg.ExtractorApiKey),
			extractor.WithModel(cfg.ExtractorModel),
		)
	case "anthropic":
		ext = anthropicextractor.NewExtractor(
			extractor.WithApiKey(cfg.ExtractorApiKey),
			extractor.WithModel(cfg.ExtractorModel),
		)
	}

	svc := knowledge.New(emb, ext, st)

	srv := httpserver.NewServer(
		svc,
		server.WithAddress(cfg.Address),
		server.WithUserHeader(cfg.UserHeader),
		server.WithConversationHeader(cfg.ConversationHeader),
		server.WithUpstreamTimeout(cfg.UpstreamTimeout),
	)

	go func() {
		slog.InfoContext(ctx, "listening", "address", cfg.Address, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "shutdown failed", "error", err)
	}
}
