package application

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/domain/entity"
	"github.com/taskdeck/taskdeck/internal/domain/repository"
)

var (
	// ErrTaskNotFound maps to 404.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskForbidden maps to 403: the task exists but belongs to someone
	// else. Once existence is confirmed the response is identical for every
	// non-owner.
	ErrTaskForbidden = errors.New("task owned by another user")
)

const DefaultPageSize = 6

// TaskService applies owner scoping to every task operation. The requester
// id always comes from the verified session, never from the payload.
type TaskService struct {
	Repo   repository.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: repo, Logger: logger}
}

type TaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
}

// ListQuery is the page/sort/filter spec applied server-side.
type ListQuery struct {
	Page     int
	PageSize int
	Filter   repository.TaskFilter
	Sort     repository.TaskSort
}

type TaskPage struct {
	Tasks      []entity.Task
	TotalTasks int
	Page       int
	PageSize   int
}

// List returns one page of the owner's tasks plus the total count of
// matching rows ignoring pagination. page < 1 is clamped to 1; a page past
// the end returns an empty list, not an error.
func (s *TaskService) List(ownerID string, q ListQuery) (TaskPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}

	offset := (q.Page - 1) * q.PageSize
	tasks, err := s.Repo.List(ownerID, q.Filter, q.Sort, offset, q.PageSize)
	if err != nil {
		return TaskPage{}, err
	}
	total, err := s.Repo.Count(ownerID, q.Filter)
	if err != nil {
		return TaskPage{}, err
	}
	return TaskPage{Tasks: tasks, TotalTasks: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func (s *TaskService) Create(ownerID string, in TaskInput) (*entity.Task, error) {
	t := &entity.Task{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
	}
	if err := s.Repo.Create(t); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", ownerID).Error("create task failed")
		}
		return nil, err
	}
	return t, nil
}

// Update replaces every mutable field; partial updates are not supported.
// The existence check and the write are separate statements, so a row
// deleted in between surfaces as ErrTaskNotFound from the write.
func (s *TaskService) Update(ownerID, id string, in TaskInput) (*entity.Task, error) {
	t, err := s.ownedTask(ownerID, id)
	if err != nil {
		return nil, err
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Priority = in.Priority
	t.Status = in.Status
	if err := s.Repo.Update(t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete is not idempotent: deleting an id that no longer exists fails with
// ErrTaskNotFound.
func (s *TaskService) Delete(ownerID, id string) error {
	if _, err := s.ownedTask(ownerID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) ownedTask(ownerID, id string) (*entity.Task, error) {
	t, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.UserID != ownerID {
		return nil, ErrTaskForbidden
	}
	return t, nil
}
