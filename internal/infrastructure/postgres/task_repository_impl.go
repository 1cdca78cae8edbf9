package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/taskdeck/internal/domain/entity"
	"github.com/taskdeck/taskdeck/internal/domain/repository"
)

// sortColumns maps the column ids the data table sends to SQL columns.
// Anything not listed falls back to the default sort.
var sortColumns = map[string]string{
	"status":    "status",
	"priority":  "priority",
	"title":     "title",
	"createdAt": "created_at",
}

const defaultOrder = "status ASC"

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(t *entity.Task) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, priority, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Title, t.Description, t.Priority, t.Status)

	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) GetByID(id string) (*entity.Task, error) {
	ctx := context.Background()
	t := &entity.Task{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, description, priority, status, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, id)

	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
		&t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// whereClause builds the owner + filter predicate shared by List and Count.
// The owner predicate is always present; clients cannot override it.
func whereClause(ownerID string, f repository.TaskFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{ownerID}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		conds = append(conds, "priority = $"+strconv.Itoa(len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// orderClause resolves the requested sort against the whitelist. Unknown
// columns fall back to the default instead of failing the query.
func orderClause(sort repository.TaskSort) string {
	col, ok := sortColumns[sort.Column]
	if !ok {
		return defaultOrder
	}
	dir := "ASC"
	if strings.EqualFold(sort.Direction, "desc") {
		dir = "DESC"
	}
	// Secondary key keeps pagination stable when the sort column has ties.
	return col + " " + dir + ", created_at DESC"
}

func (r *TaskRepository) List(ownerID string, f repository.TaskFilter, sort repository.TaskSort, offset, limit int) ([]entity.Task, error) {
	ctx := context.Background()
	where, args := whereClause(ownerID, f)

	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, priority, status, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY %s
		OFFSET $%d LIMIT $%d
	`, where, orderClause(sort), len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0, limit)
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description,
			&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Count(ownerID string, f repository.TaskFilter) (int, error) {
	ctx := context.Background()
	where, args := whereClause(ownerID, f)

	var n int
	err := r.pool.QueryRow(ctx, "SELECT count(*) FROM tasks WHERE "+where, args...).Scan(&n)
	return n, err
}

func (r *TaskRepository) Update(t *entity.Task) error {
	ctx := context.Background()
	t.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, status = $4, updated_at = $5
		WHERE id = $6
	`, t.Title, t.Description, t.Priority, t.Status, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
