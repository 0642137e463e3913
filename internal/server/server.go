package server

import (
	"fmt"
	"net/http"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

type Server struct {
	port        int
	todoService service.TodoService
	db          database.Service
}

// New builds the route handler without an http.Server around it.
func New(todoService service.TodoService, dbService database.Service) *Server {
	return &Server{todoService: todoService, db: dbService}
}

// NewServer wires the local REST proxy into an http.Server listening on cfg.Port.
func NewServer(cfg config.ServerConfig, todoService service.TodoService, dbService database.Service) *http.Server {
	appServer := New(todoService, dbService)
	appServer.port = cfg.Port

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
