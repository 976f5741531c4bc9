package cli

import (
	"fmt"

	"skillparse/internal/ai"
	"skillparse/internal/server"
	"skillparse/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP resume intake server",
	Long: `Start an HTTP server that accepts PDF resume uploads and serves
candidate queries.

Available endpoints:
- POST /api/process: Upload a PDF resume and receive the extracted candidate
- GET /api/candidates: Query stored candidates by skill, seniority, qualification and score
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// The AI service and store live for the whole server process; handlers
	// share them instead of rebuilding per request.
	aiService, err := ai.NewService(&cfg.AI, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	candidateStore, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open candidate store: %w", err)
	}
	if err := candidateStore.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to prepare candidate schema: %w", err)
	}

	serverCfg := server.ServerConfig{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		Version:       Version,
		APIKeys:       cfg.Server.APIKeys,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		MaxUploadSize: cfg.App.MaxUploadSize,
	}
	return server.NewServer(cfg, serverCfg, aiService, candidateStore, logger).Start()
}
