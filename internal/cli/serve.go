package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/httpapi"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/mcpserver"
	"github.com/inkognito-mcp/inkognito/internal/service"
)

var serveHTTP bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the document tools over MCP stdio or HTTP",
	Long: `Serve the document tools. By default the server speaks the Model
Context Protocol over stdio, which is how MCP clients launch it. With
--http it exposes the same operations as a JSON REST API instead.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve a JSON REST API instead of MCP stdio")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, svc, err := setup()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer log.Sync()

	if serveHTTP {
		return serveREST(cfg, log, svc)
	}

	log.Info("Starting MCP server on stdio", zap.String("version", Version))
	return mcpserver.New(svc, Version, log).Run()
}

func serveREST(cfg *config.Config, log *logger.Logger, svc *service.Service) error {
	server := httpapi.New(cfg, svc, Version, log)

	// Hot-reload note only: the listener port is fixed for the process
	// lifetime, runtime settings pick up the new values.
	if err := config.Watch(cfg, func(newCfg *config.Config) {
		log.Info("Configuration reloaded")
		*cfg = *newCfg
	}); err != nil {
		log.Warn("Config watch unavailable", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP API server", zap.Int("port", cfg.Server.Port))
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Stop(shutdownCtx)
	}
}
