package repository

import "github.com/taskdeck/taskdeck/internal/domain/entity"

// TaskSort is a whitelisted sort specification. Column names are the JSON
// column ids sent by the data table ("status", "priority", "title",
// "createdAt"); the store maps them to SQL columns.
type TaskSort struct {
	Column    string
	Direction string // "asc" or "desc"
}

// TaskFilter holds the optional equality filters for a task list query.
// Empty fields are ignored. The owner predicate is NOT part of the filter;
// it is a mandatory argument so callers cannot forget it.
type TaskFilter struct {
	Status   string
	Priority string
}

// TaskRepository defines task persistence. List and Count take the same
// owner + filter arguments so totals always match the page contents.
type TaskRepository interface {
	Create(t *entity.Task) error
	GetByID(id string) (*entity.Task, error)
	List(ownerID string, f TaskFilter, sort TaskSort, offset, limit int) ([]entity.Task, error)
	Count(ownerID string, f TaskFilter) (int, error)
	Update(t *entity.Task) error
	Delete(id string) error
}
