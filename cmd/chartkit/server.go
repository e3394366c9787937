package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rmezhov/chartkit/internal/api"
	"github.com/rmezhov/chartkit/internal/config"
	"github.com/rmezhov/chartkit/internal/delivery"
	"github.com/rmezhov/chartkit/internal/filesink"
	"github.com/rmezhov/chartkit/internal/objectstore"
	"github.com/rmezhov/chartkit/internal/render"
	"github.com/rmezhov/chartkit/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chartkit MCP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		return runServer(transport)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show chartkit configuration and server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func init() {
	startCmd.Flags().String("transport", "", "MCP transport: stdio or sse (overrides configuration)")
}

func runServer(transportFlag string) error {
	fmt.Fprintf(os.Stderr, "chartkit version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// The launch argument wins over configured/env transport.
	if transportFlag != "" {
		if transportFlag != "stdio" && transportFlag != "sse" {
			return fmt.Errorf("invalid --transport %q: must be stdio or sse", transportFlag)
		}
		cfg.Server.Transport = transportFlag
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the render history store.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Optional object store.
	objStore, err := objectstore.New(objectstore.Config{
		Endpoint:      cfg.Minio.Endpoint,
		AccessKey:     cfg.Minio.AccessKey,
		SecretKey:     cfg.Minio.SecretKey,
		Bucket:        cfg.Minio.Bucket,
		Region:        cfg.Minio.Region,
		UseSSL:        cfg.Minio.UseSSL,
		PublicBaseURL: cfg.Minio.PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("initializing object store: %w", err)
	}
	if objStore.IsConfigured() {
		slog.Info("object store delivery enabled", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
	}

	// Wire the delivery resolver. Local-file delivery is only eligible in
	// SSE mode, where the charts directory is actually served.
	resolver := &delivery.Resolver{
		Sink:         filesink.New(cfg.Charts.Dir),
		Store:        objStore,
		BaseURL:      cfg.ChartsBaseURL(),
		LocalEnabled: cfg.SSEEnabled(),
		Observer:     &delivery.SlogObserver{},
	}

	renderer := render.New(cfg.Render.BaseURL, cfg.RenderTimeout())

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Renderer: renderer,
		Resolver: resolver,
		History:  store,
		Logger:   slog.Default(),
	})

	g, ctx := errgroup.WithContext(ctx)

	if cfg.SSEEnabled() {
		// One HTTP server carries the SSE transport and the charts directory.
		sseSrv := server.NewSSEServer(mcpSrv)
		topRouter := chi.NewRouter()
		topRouter.Handle("/sse", sseSrv.SSEHandler())
		topRouter.Handle("/message", sseSrv.MessageHandler())
		topRouter.Mount("/", api.NewChartsRouter(cfg.Charts.Dir))

		addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: topRouter,
		}

		g.Go(func() error {
			slog.Info("chartkit listening", "addr", addr, "transport", "sse", "charts", cfg.ChartsBaseURL())
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	} else {
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			slog.Info("chartkit serving", "transport", "stdio")
			if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio server error: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	// Health endpoint is only up in SSE mode.
	if cfg.SSEEnabled() {
		client := &http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port))
		if err != nil {
			printStatus("Server", "stopped")
		} else {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				printStatus("Server", "running on port %d", cfg.Server.Port)
			} else {
				printStatus("Server", "error (HTTP %d)", resp.StatusCode)
			}
		}
	} else {
		printStatus("Server", "stdio transport (started on demand by the MCP client)")
	}

	printStatus("Transport", "%s", cfg.Server.Transport)
	printStatus("Render service", "%s", cfg.Render.BaseURL)
	printStatus("Charts dir", "%s", cfg.Charts.Dir)
	printStatus("Charts URL", "%s", cfg.ChartsBaseURL())
	if cfg.Minio.Endpoint != "" {
		printStatus("Object store", "%s/%s", cfg.Minio.Endpoint, cfg.Minio.Bucket)
	} else {
		printWarning("object store not configured, remote uploads disabled")
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err == nil {
		defer store.Close()
		if n, err := store.CountRenders(); err == nil {
			printStatus("Renders recorded", "%d", n)
		}
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
