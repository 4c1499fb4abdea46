package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hylexhq/guildflow/internal/config"
	"github.com/hylexhq/guildflow/internal/dispatch"
	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/domain/ticket"
	"github.com/hylexhq/guildflow/internal/mcp"
	"github.com/hylexhq/guildflow/internal/platform"
	"github.com/hylexhq/guildflow/internal/sqlite"
)

// app bundles everything a command needs after wiring.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sqlite.DB
	invites  *invite.Service
	tickets  *ticket.Service
	services mcp.Services
}

func (a *app) close() {
	a.db.Close()
}

// buildApp wires the store, platform adapters, and services from config.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := os.Stdout
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	inviteRepo := sqlite.NewInviteRepository(db)
	processRepo := sqlite.NewProcessRepository(db)
	participantRepo := sqlite.NewParticipantRepository(db)
	interviewRepo := sqlite.NewInterviewRepository(db)
	ticketRepo := sqlite.NewTicketRepository(db)

	// The log sink stands in for a real chat platform adapter; swap it
	// for the gateway implementation when one is wired up.
	sink := platform.NewLogSink(logger)

	countdown := dispatch.NewCountdown(logger)

	inviteSvc := invite.NewService(
		inviteRepo, processRepo, participantRepo,
		sink, sink,
		time.Duration(cfg.Workflow.InviteTTLHours)*time.Hour,
		logger,
	)
	processSvc := process.NewService(processRepo, participantRepo, logger)
	interviewSvc := interview.NewService(interviewRepo, processRepo, participantRepo, logger)
	ticketSvc := ticket.NewService(
		ticketRepo, sink, sink, countdown,
		time.Duration(cfg.Workflow.TicketCloseDelaySeconds)*time.Second,
		logger,
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		invites: inviteSvc,
		tickets: ticketSvc,
		services: mcp.Services{
			Invites:    inviteSvc,
			Processes:  processSvc,
			Interviews: interviewSvc,
			Tickets:    ticketSvc,
		},
	}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server with the background expiry sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			mcpServer := mcp.NewServer(mcp.Config{
				Services: a.services,
				Logger:   a.logger,
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-stop
				a.logger.Info("shutting down")
				cancel()
			}()

			go runSweepLoop(ctx, a)

			if a.cfg.Transport.Mode == "stdio" {
				return runStdioMode(ctx, a.logger, mcpServer)
			}
			return runHTTPMode(ctx, a.logger, mcpServer, a.cfg.Server.Host, a.cfg.Server.Port)
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue pending invites once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.invites.ExpireSweep(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("sweep complete", "expired", n)
			return nil
		},
	}
}

// runSweepLoop expires overdue invites on a ticker. Errors are logged
// per batch; the loop never aborts the process.
func runSweepLoop(ctx context.Context, a *app) {
	interval := time.Duration(a.cfg.Workflow.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.invites.ExpireSweep(ctx); err != nil {
				a.logger.Error("invite sweep failed", "error", err)
			}
		}
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}
	if err := mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
