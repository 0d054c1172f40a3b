// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haldre/assistant-gateway/internal/assistant"
	"github.com/haldre/assistant-gateway/internal/config"
	"github.com/haldre/assistant-gateway/internal/llm"
	"github.com/haldre/assistant-gateway/internal/logging"
	"github.com/haldre/assistant-gateway/internal/persistence/postgres"
	"github.com/haldre/assistant-gateway/internal/repository"
	"github.com/haldre/assistant-gateway/internal/tools"
	httptransport "github.com/haldre/assistant-gateway/internal/transport/http"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := logging.NewLogger(cfg.Env)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool, logger); err != nil {
			log.Fatalf("schema bootstrap failed: %v", err)
		}
	}

	drafter, err := llm.NewOpenAIDrafter(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	if err != nil {
		log.Fatalf("drafter init failed: %v", err)
	}

	proposalRepo := repository.NewProposalRepository(pool, logger)

	// Proposals left claimed by a crashed process are flagged, not
	// re-driven: whether their side effect happened is unknown.
	if stuck, err := proposalRepo.CountStuck(ctx); err != nil {
		logger.Warn("stuck proposal check failed", "error", err)
	} else if stuck > 0 {
		logger.Warn("proposals claimed but unresolved from a previous run", "count", stuck)
	}

	registry := tools.NewRegistry(logger)
	registry.Register(assistant.ToolWriteNote, tools.NewNoteWriter(cfg.NotesDir))

	flow := assistant.NewFlow(proposalRepo, drafter, logger)
	approver := assistant.NewApprover(proposalRepo, registry, logger)

	handler := httptransport.NewRouter(httptransport.Deps{
		Chat:           flow,
		Approver:       approver,
		Proposals:      proposalRepo,
		Health:         postgres.NewSchemaHealthChecker(pool),
		Logger:         logger,
		AdminToken:     cfg.AdminToken,
		ChatRatePerMin: cfg.ChatRatePerMin,
		Version:        Version,
		Commit:         Commit,
		BuildDate:      BuildDate,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening",
			"addr", cfg.HTTPAddr,
			"version", Version,
			"commit", Commit,
			"build_date", BuildDate,
		)

		if err := srv.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}
