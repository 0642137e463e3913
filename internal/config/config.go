package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend selects which persistence path the client adapter talks to.
type Backend string

const (
	BackendLocal   Backend = "local"
	BackendManaged Backend = "managed"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrUnknownDriver     = errors.New("unknown database driver")
	ErrUnknownBackend    = errors.New("unknown backend")
	ErrManagedURLMissing = errors.New("TODO_MANAGED_DATABASE_URL is required for the managed backend")
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Client   ClientConfig
}

// ServerConfig configures the local REST proxy.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig configures the proxy's own storage.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	SQLitePath string
}

// DSN renders the postgres connection string for GORM.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// ClientConfig configures the terminal client and its data access adapter.
type ClientConfig struct {
	Backend            Backend
	APIBaseURL         string
	ManagedDatabaseURL string
	RequestTimeout     time.Duration
	MaxRetries         int
	SessionFile        string
	Timezone           string
	DevMode            bool
}

// Location resolves the configured timezone used to decide what "today" is.
func (c ClientConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3001)
	v.SetDefault("server_read_timeout", 10*time.Second)
	v.SetDefault("server_write_timeout", 30*time.Second)
	v.SetDefault("server_idle_timeout", time.Minute)

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "todos")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_sqlite_path", "todos.db")

	v.SetDefault("todo_backend", string(BackendLocal))
	v.SetDefault("todo_api_url", "http://localhost:3001/api")
	v.SetDefault("todo_managed_database_url", "")
	v.SetDefault("todo_request_timeout", 10*time.Second)
	v.SetDefault("todo_max_retries", 3)
	v.SetDefault("todo_session_file", defaultSessionFile())
	v.SetDefault("todo_timezone", "Local")
	v.SetDefault("todo_dev_mode", true)
}

// Load resolves configuration from defaults, an optional .env file, an optional
// config file at path, and the environment (highest wins).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("port"),
			ReadTimeout:  v.GetDuration("server_read_timeout"),
			WriteTimeout: v.GetDuration("server_write_timeout"),
			IdleTimeout:  v.GetDuration("server_idle_timeout"),
		},
		Database: DatabaseConfig{
			Driver:     v.GetString("db_driver"),
			Host:       v.GetString("db_host"),
			Port:       v.GetString("db_port"),
			Name:       v.GetString("db_name"),
			User:       v.GetString("db_user"),
			Password:   v.GetString("db_password"),
			SSLMode:    v.GetString("db_sslmode"),
			SQLitePath: v.GetString("db_sqlite_path"),
		},
		Client: ClientConfig{
			Backend:            Backend(v.GetString("todo_backend")),
			APIBaseURL:         v.GetString("todo_api_url"),
			ManagedDatabaseURL: v.GetString("todo_managed_database_url"),
			RequestTimeout:     v.GetDuration("todo_request_timeout"),
			MaxRetries:         v.GetInt("todo_max_retries"),
			SessionFile:        v.GetString("todo_session_file"),
			Timezone:           v.GetString("todo_timezone"),
			DevMode:            v.GetBool("todo_dev_mode"),
		},
	}

	if cfg.Server.Port <= 0 {
		log.Printf("Warning: invalid PORT %d, using default 3001", cfg.Server.Port)
		cfg.Server.Port = 3001
	}

	return cfg, nil
}

// ValidateServer checks the settings cmd/api depends on.
func (c *Config) ValidateServer() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
}

// ValidateClient checks the settings cmd/todo depends on.
func (c *Config) ValidateClient() error {
	switch c.Client.Backend {
	case BackendLocal:
		if c.Client.APIBaseURL == "" {
			return errors.New("TODO_API_URL must not be empty")
		}
	case BackendManaged:
		if c.Client.ManagedDatabaseURL == "" {
			return ErrManagedURLMissing
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Client.Backend)
	}
	if c.Client.MaxRetries < 0 {
		return errors.New("TODO_MAX_RETRIES must not be negative")
	}
	if _, err := c.Client.Location(); err != nil {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".todo-session.json"
	}
	return filepath.Join(dir, "todo", "session.json")
}
