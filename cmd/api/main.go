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

	flag "github.com/spf13/pflag"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
	"github.com/Tomlord1122/todo-tracker/internal/server"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		log.Println("Closing database connection...")
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed.")
		}
	}

	log.Println("Server exiting")

	done <- true
}

// openStorage connects the configured driver and returns the repository over it.
func openStorage(cfg config.DatabaseConfig) (repository.TodoRepository, database.Service, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using sqlite database at %s", cfg.SQLitePath)
		return repository.NewSQLiteTodoRepository(db.DB()), db, nil

	default:
		db, err := database.NewPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}

		log.Println("Running database auto-migration...")
		if err := db.AutoMigrate(); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("Database auto-migration complete.")

		return repository.NewGormTodoRepository(db.DB()), db, nil
	}
}

func main() {
	configPath := flag.StringP("config", "c", "", "Optional config file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	todoRepo, dbService, err := openStorage(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	todoService := service.NewTodoService(todoRepo)
	apiServer := server.NewServer(cfg.Server, todoService, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("HTTP server ListenAndServe error: %v", err)
		os.Exit(1)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
