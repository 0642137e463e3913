package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

const maxBodyBytes = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.healthHandler)

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/{userId}", s.listTodosHandler)
		r.Post("/", s.createTodoHandler)
		r.Put("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	todos, err := s.todoService.ListTodos(r.Context(), userID)
	if err != nil {
		s.respondWithServiceError(w, err, "Error fetching todos", "Failed to fetch todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if status, msg := decodeJSONBody(w, r, &req); status != 0 {
		respondWithError(w, status, msg)
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, err, "Error adding todo", "Failed to add todo")
		return
	}

	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.UpdateTodoRequest
	if status, msg := decodeJSONBody(w, r, &req); status != 0 {
		respondWithError(w, status, msg)
		return
	}

	if err := s.todoService.UpdateTodo(r.Context(), id, req); err != nil {
		s.respondWithServiceError(w, err, "Error updating todo", "Failed to update todo")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")

	if err := s.todoService.DeleteTodo(r.Context(), id, userID); err != nil {
		s.respondWithServiceError(w, err, "Error deleting todo", "Failed to delete todo")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// respondWithServiceError maps service errors onto status codes. Unexpected
// failures are logged with their cause and reported with a generic message.
func (s *Server) respondWithServiceError(w http.ResponseWriter, err error, logPrefix, publicMsg string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		respondWithError(w, http.StatusBadRequest, "User ID is required")
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error())
	default:
		log.Printf("%s: %v", logPrefix, err)
		respondWithError(w, http.StatusInternalServerError, publicMsg)
	}
}

// decodeJSONBody decodes a single JSON object into dst. It returns a non-zero
// status and a client-facing message when the body is unacceptable.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) (int, string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return 0, ""
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return http.StatusBadRequest, fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "Request body contains badly-formed JSON"
	case errors.As(err, &unmarshalTypeError):
		return http.StatusBadRequest, fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName)
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "Request body must not be empty"
	case errors.As(err, &maxBytesError):
		return http.StatusRequestEntityTooLarge, "Request body is too large"
	default:
		// Custom unmarshalers (e.g. an invalid dueDate) land here.
		return http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
