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

	"github.com/hearthlabs/hearth/backend/internal/config"
	"github.com/hearthlabs/hearth/backend/internal/handler"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	aiservice "github.com/hearthlabs/hearth/backend/internal/service/ai"
	dispatchservice "github.com/hearthlabs/hearth/backend/internal/service/dispatch"
	memoryservice "github.com/hearthlabs/hearth/backend/internal/service/memory"
	"github.com/hearthlabs/hearth/backend/internal/service/responder"
	sessionservice "github.com/hearthlabs/hearth/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	registry := personamodel.NewRegistry(personamodel.Seed())

	sessions, err := sessionservice.NewStore(cfg.Dispatch.SessionCapacity)
	if err != nil {
		log.Fatalf("failed to create session store: %v", err)
	}

	var journal *memoryservice.Journal
	if cfg.Memory.Enabled() {
		journal, err = memoryservice.NewJournal(cfg.Memory.JournalPath)
		if err != nil {
			log.Printf("warning: failed to initialize memory journal: %v", err)
			log.Println("continuing without journaling")
			journal = nil
		}
	} else {
		log.Println("memory journal disabled by configuration")
	}

	var aiSvc *aiservice.Service
	if cfg.AI.Enabled() {
		aiSvc, err = aiservice.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize model backend: %v", err)
			log.Println("continuing with template capabilities only")
		} else {
			log.Println("model backend initialized successfully")
		}
	} else {
		log.Println("model credentials not configured, personas answer from templates")
	}

	var modelCapability responder.Capability
	if aiSvc != nil {
		modelCapability = aiSvc
	}
	resp := responder.New(responder.NewStaticCapability(nil), modelCapability, cfg.Dispatch.ResponderTimeout)

	classifier := dispatchservice.NewClassifier(registry, dispatchservice.DefaultPatterns())
	router, err := dispatchservice.NewRouter(registry, dispatchservice.DefaultTables())
	if err != nil {
		log.Fatalf("failed to create router: %v", err)
	}
	router.StartMaintenance(ctx, cfg.Dispatch.DecayInterval)

	dispatchSvc := dispatchservice.NewService(classifier, router, resp, sessions, journal)

	httpHandler := handler.NewRouter(registry, dispatchSvc, aiSvc, sessions, journal)

	startServer(ctx, cfg.Server, httpHandler)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Hearth backend listening on %s", serverCfg.Addr)
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
