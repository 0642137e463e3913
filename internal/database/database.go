package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// Service is the lifecycle surface every storage connection exposes to the server.
type Service interface {
	Health() map[string]string
	Close() error
}

// Postgres is a GORM connection (pgx driver underneath) to the proxy's postgres database.
type Postgres struct {
	db   *gorm.DB
	name string
}

// NewPostgres opens the GORM connection described by cfg and configures the pool.
func NewPostgres(cfg config.DatabaseConfig) (*Postgres, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	return openPostgres(postgres.Open(cfg.DSN()), cfg.Name, gormLogger)
}

// NewPostgresDSN opens a GORM connection from a full DSN or URL.
func NewPostgresDSN(dsn string) (*Postgres, error) {
	return openPostgres(postgres.Open(dsn), "", logger.Default.LogMode(logger.Silent))
}

func openPostgres(dialector gorm.Dialector, name string, gormLogger logger.Interface) (*Postgres, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Postgres{db: db, name: name}, nil
}

func (p *Postgres) DB() *gorm.DB {
	return p.db
}

// AutoMigrate creates or updates the todos table. gen_random_uuid() needs postgres 13+.
func (p *Postgres) AutoMigrate() error {
	if err := p.db.AutoMigrate(&domain.Todo{}); err != nil {
		return fmt.Errorf("auto-migrating todos: %w", err)
	}
	return nil
}

func (p *Postgres) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)
	sqlDB, err := p.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("failed to get underlying DB for health check: %v", err)
		log.Printf("Error getting DB for health check: %v", err)
		return stats
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := sqlDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > 80 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB for closing: %v", err)
		return err
	}
	log.Printf("Closing connection pool for database: %s", p.name)
	return sqlDB.Close()
}
