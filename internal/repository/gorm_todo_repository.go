package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// gormTodoRepository implements TodoRepository using GORM over postgres.
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	result := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Order("id").
		Find(&todos)
	if result.Error != nil {
		return nil, fmt.Errorf("listing todos: %w", result.Error)
	}
	return todos, nil
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	// GORM sets CreatedAt and UpdatedAt from the same clock reading.
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}
	return nil
}

func (r *gormTodoRepository) Update(ctx context.Context, id, ownerID string, patch domain.TodoPatch) error {
	if !validUUID(id) {
		return nil
	}

	updates := patch.Columns()
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("updating todo %s: %w", id, result.Error)
	}
	return nil
}

func (r *gormTodoRepository) Delete(ctx context.Context, id, ownerID string) error {
	if !validUUID(id) {
		return nil
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.Todo{})
	if result.Error != nil {
		return fmt.Errorf("deleting todo %s: %w", id, result.Error)
	}
	return nil
}
