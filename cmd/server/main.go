package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FreePeak/pet-mcp-server/internal/config"
	"github.com/FreePeak/pet-mcp-server/internal/logger"
	"github.com/FreePeak/pet-mcp-server/internal/mcp"
	"github.com/FreePeak/pet-mcp-server/internal/pets"
	"github.com/FreePeak/pet-mcp-server/internal/session"
	"github.com/FreePeak/pet-mcp-server/internal/transport"
	"github.com/FreePeak/pet-mcp-server/pkg/db"
)

func main() {
	// Parse command line flags
	transportMode := flag.String("t", "", "Transport mode (http or stdio)")
	port := flag.Int("port", 0, "Server port")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags if provided
	if *transportMode != "" {
		cfg.TransportMode = *transportMode
	}
	if *port != 0 {
		cfg.ServerPort = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.LogLevel)

	if err := run(cfg); err != nil {
		logger.Error("Server error: %v", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// run owns every resource opened after configuration and releases them
// before returning
func run(cfg *config.Config) error {
	logger.Info("Starting MCP server with %s transport and %s store", cfg.TransportMode, cfg.StoreType)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreType, err)
	}
	defer closeStore()

	if cfg.SeedSamplePets {
		if _, err := pets.Seed(ctx, repo); err != nil {
			return fmt.Errorf("failed to seed sample pets: %w", err)
		}
	}

	state := session.NewState()
	logger.Info("Created session %s", state.ID)

	handler := mcp.NewHandler(repo, state, mcp.ServerInfo{
		Name:        cfg.ServerInfo.Name,
		Version:     cfg.ServerInfo.Version,
		Description: cfg.ServerInfo.Description,
	})
	logger.Info("Registered tools: %s", handler.ListAvailableTools())

	if cfg.TransportMode == "stdio" {
		return transport.NewStdioTransport(handler, os.Stdin, os.Stdout).Run(ctx)
	}
	return serveHTTP(ctx, handler, cfg.ServerPort)
}

// openStore builds the pet repository selected by STORE_TYPE
func openStore(ctx context.Context, cfg *config.Config) (pets.Repository, func(), error) {
	if cfg.StoreType == "memory" {
		return pets.NewMemoryRepository(), func() {}, nil
	}

	dbConfig := db.Config{
		Type:     cfg.DBConfig.Type,
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		Name:     cfg.DBConfig.Name,
	}
	database, err := db.NewDatabase(dbConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Connect(ctx); err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to %s", database.ConnectionString())

	closeFn := func() {
		if err := database.Close(); err != nil {
			logger.Error("Failed to close database: %v", err)
		}
	}

	repo := pets.NewSQLRepository(database)
	if err := repo.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return repo, closeFn, nil
}

func serveHTTP(ctx context.Context, handler transport.HTTPHandler, port int) error {
	httpTransport := transport.NewHTTPTransport(handler, port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpTransport.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Shutdown server gracefully
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpTransport.Shutdown(shutdownCtx)
}
