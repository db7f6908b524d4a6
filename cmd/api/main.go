package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/inkwell-labs/tropelens/backend/internal/config"
	"github.com/inkwell-labs/tropelens/backend/internal/handler"
	"github.com/inkwell-labs/tropelens/backend/internal/service/ai"
	chatservice "github.com/inkwell-labs/tropelens/backend/internal/service/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/service/onboarding"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/internal/store"
	"github.com/inkwell-labs/tropelens/backend/internal/store/memory"
	"github.com/inkwell-labs/tropelens/backend/internal/store/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The model key is the one required secret; refusing to start without it
	// beats serving an app whose analysis and chat can never work.
	if !cfg.AI.Enabled() {
		log.Fatal("model credentials missing: set ARK_API_KEY and ARK_MODEL (or the AK/SK pair)")
	}

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}

	var st store.Store
	if cfg.Database.URL != "" {
		pgStore, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		defer pgStore.Close()
		st = pgStore
		log.Println("persistence: postgres")
	} else {
		st = memory.New()
		log.Println("persistence: in-memory (set DATABASE_URL for postgres)")
	}

	gate := session.New(st, cfg.Session)
	onboardingSvc := onboarding.NewService(st, aiService)
	chatSvc := chatservice.NewService(aiService)

	// Session-changed events only feed the log for now; the channel is the
	// integration point for anything that needs to react to sign-in/out.
	go func() {
		for event := range gate.Subscribe() {
			log.Printf("[session] event=%s user=%s", event.Type, event.UserID)
		}
	}()

	router := handler.NewRouter(gate, onboardingSvc, chatSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Tropelens backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
