package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// StatusError is a non-2xx answer from the REST proxy.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// RESTAdapter talks to the local REST proxy over HTTP.
type RESTAdapter struct {
	baseURL string
	client  *http.Client
}

func NewRESTAdapter(baseURL string, client *http.Client) *RESTAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTAdapter{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (a *RESTAdapter) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var todos []domain.Todo
	if err := a.do(ctx, http.MethodGet, "/todos/"+url.PathEscape(ownerID), nil, &todos); err != nil {
		return nil, &domain.BackendError{Op: "list", Cause: err}
	}

	for i := range todos {
		if err := todos[i].Validate(); err != nil {
			return nil, &domain.BackendError{Op: "list", Cause: fmt.Errorf("malformed todo in response: %w", err)}
		}
		todos[i].OwnerID = ownerID
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

func (a *RESTAdapter) Create(ctx context.Context, ownerID string, input domain.NewTodo) (domain.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return domain.Todo{}, err
	}
	input, err := input.Normalize()
	if err != nil {
		return domain.Todo{}, err
	}

	body := service.CreateTodoRequest{
		UserID:   ownerID,
		Text:     input.Text,
		DueDate:  input.DueDate,
		Category: input.Category,
		Priority: input.Priority,
	}

	var created domain.Todo
	if err := a.do(ctx, http.MethodPost, "/todos", body, &created); err != nil {
		return domain.Todo{}, &domain.BackendError{Op: "create", Cause: err}
	}
	if err := created.Validate(); err != nil {
		return domain.Todo{}, &domain.BackendError{Op: "create", Cause: fmt.Errorf("malformed todo in response: %w", err)}
	}
	created.OwnerID = ownerID
	return created, nil
}

func (a *RESTAdapter) Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	patch, err := patch.Normalize()
	if err != nil {
		return err
	}

	body := service.NewUpdateTodoRequest(ownerID, patch)
	if err := a.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), body, nil); err != nil {
		return &domain.BackendError{Op: "update", Cause: err}
	}
	return nil
}

func (a *RESTAdapter) Delete(ctx context.Context, id, ownerID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	path := "/todos/" + url.PathEscape(id) + "?" + url.Values{"userId": {ownerID}}.Encode()
	if err := a.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return &domain.BackendError{Op: "delete", Cause: err}
	}
	return nil
}

// do sends payload as JSON (when non-nil) and decodes a 2xx body into out (when non-nil).
func (a *RESTAdapter) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &errBody)
		return &StatusError{Code: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// isClientError reports whether err is a 4xx answer that repeating cannot fix.
func isClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 400 && se.Code < 500
}
