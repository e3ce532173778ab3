// Command server boots the mindfeed state layer: it rehydrates the stores
// from the configured storage backend and serves them over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindfeed/internal/config"
	"mindfeed/internal/directory"
	"mindfeed/internal/featureflags"
	"mindfeed/internal/observability"
	"mindfeed/internal/persistence"
	"mindfeed/internal/seed"
	"mindfeed/internal/server"
	"mindfeed/internal/store"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.SetGlobalLogger(observability.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel))
	logger := observability.GlobalLogger

	shutdownTracing, err := observability.InitTracing(cfg.Tracing("mindfeed", serviceVersion))
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	fx, err := seed.Load()
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	ctx := context.Background()
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}

	dir := directory.NewSimulated(fx.Users, directory.Config{
		FetchLatency:  cfg.DirectoryFetchLatency,
		UpdateLatency: cfg.DirectoryUpdateLatency,
	})
	stores := server.Stores{
		User:          store.NewUserStore(),
		Thoughts:      store.NewThoughtStore(fx.Thoughts),
		Notes:         store.NewNotesStore(fx.Notes),
		Relationships: store.NewRelationshipStore(dir),
		Selection:     store.NewSelectionStore(),
	}

	bindings := []interface{ Close() }{
		persistence.Bind[store.UserState](ctx, persistence.SlotUser, storage, stores.User, persistence.MigrateUser),
		persistence.Bind[store.RelationshipState](ctx, persistence.SlotRelationships, storage, stores.Relationships, persistence.MigrateRelationships),
		persistence.Bind[store.NotesState](ctx, persistence.SlotNotes, storage, stores.Notes, persistence.MigrateNotes),
		persistence.Bind[store.ThoughtState](ctx, persistence.SlotThoughts, storage, stores.Thoughts, persistence.MigrateThoughts),
	}

	srv := server.New(server.Deps{
		Config:    cfg,
		Directory: dir,
		Stores:    stores,
		Flags:     featureflags.NewManager(cfg.FeatureFlags),
	})

	if !srv.Users().IsAuthenticated() && cfg.SessionUserID != "" {
		if _, err := srv.Users().FetchCurrentUser(ctx, cfg.SessionUserID); err != nil {
			logger.Warn("initial sign-in failed", "user_id", cfg.SessionUserID, "error", err)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		for _, b := range bindings {
			b.Close()
		}
		if err := storage.Close(); err != nil {
			logger.Error("storage close error", "error", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("tracing shutdown error", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	<-done
}

// openStorage picks the persistence backend named by the config.
func openStorage(ctx context.Context, cfg *config.Config) (persistence.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory, "":
		return persistence.NewMemoryStorage(), nil
	case config.BackendRedis:
		return persistence.NewRedisStorage(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
	case config.BackendSQLite:
		return persistence.OpenSQLStorage("sqlite", cfg.SQLitePath)
	case config.BackendPostgres:
		return persistence.OpenSQLStorage("postgres", cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
