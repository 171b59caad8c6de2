package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zipari/business-rules/internal/core/api"
	"github.com/zipari/business-rules/internal/core/auth"
	"github.com/zipari/business-rules/internal/core/config"
	"github.com/zipari/business-rules/internal/core/db"
	"github.com/zipari/business-rules/internal/core/server"
)

const Version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP evaluation API service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}

	// Audit store is optional; without --db-url evaluations run
	// without audit records.
	var queries *db.Queries
	if dbURL != "" {
		database, err := db.Open(dbURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		var migrationID string
		checkQuery := `SELECT migration_id FROM migrations WHERE migration_id = '001_evaluations.sql'`
		err = database.Get(&migrationID, database.Rebind(checkQuery))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("migration 001_evaluations not applied - run 'business-rules migrate' first")
			}
			return fmt.Errorf("failed to check migrations: %w", err)
		}

		queries, err = db.LoadQueries(database)
		if err != nil {
			return fmt.Errorf("failed to load queries: %w", err)
		}
	}

	tokens, err := config.APITokens()
	if err != nil {
		return fmt.Errorf("failed to load API tokens: %w", err)
	}
	authenticator := auth.NewAuthenticator(tokens)
	if !authenticator.Enabled() {
		log.Println("Warning: no API tokens configured (BR_API_TOKEN), authentication disabled")
	}

	service, err := api.NewEvalService(queries, cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	httpServer, err := server.NewHTTPServer(cfg, service, authenticator)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Printf("Starting business-rules evaluation API v%s on %s:%d", Version, cfg.Host, cfg.Port)
	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		return httpServer.Shutdown(ctx)
	}
}
