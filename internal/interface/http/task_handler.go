package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/application"
	"github.com/taskdeck/taskdeck/internal/domain/repository"
	"github.com/taskdeck/taskdeck/internal/interface/middleware"
	"github.com/taskdeck/taskdeck/pkg/response"
	"github.com/taskdeck/taskdeck/pkg/validation"
)

// TaskHandler serves the owner-scoped task CRUD and list endpoints. Every
// route sits behind the auth gate, so the requester id is always present.
type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type taskRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"required,min=10,max=1000"`
	Priority    string `json:"priority" binding:"required,oneof=low medium high"`
	Status      string `json:"status" binding:"required,oneof=pending completed"`
}

func (r taskRequest) toInput() application.TaskInput {
	return application.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
	}
}

// sortingParam mirrors the data table's wire shape:
// sorting=[{"column":"status","direction":"asc"}]
type sortingParam struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// maxPageSize bounds a single list query.
const maxPageSize = 100

// parseListQuery translates the request's page/sort/filter parameters.
// Malformed numbers and JSON fall back to defaults rather than erroring;
// the sort whitelist lives in the store layer.
func parseListQuery(c *gin.Context) application.ListQuery {
	q := application.ListQuery{
		Page:     1,
		PageSize: application.DefaultPageSize,
		Sort:     repository.TaskSort{Column: "status", Direction: "asc"},
	}

	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = v
	}
	// pageSize is what the table sends; limit is the legacy alias. Capped so
	// one request cannot demand the whole table.
	if v, err := strconv.Atoi(c.DefaultQuery("pageSize", c.Query("limit"))); err == nil && v > 0 {
		if v > maxPageSize {
			v = maxPageSize
		}
		q.PageSize = v
	}

	if raw := c.Query("sorting"); raw != "" {
		var sorts []sortingParam
		if err := json.Unmarshal([]byte(raw), &sorts); err == nil && len(sorts) > 0 {
			q.Sort = repository.TaskSort{Column: sorts[0].Column, Direction: sorts[0].Direction}
		}
	}

	if raw := c.Query("filters"); raw != "" {
		var filters map[string]string
		if err := json.Unmarshal([]byte(raw), &filters); err == nil {
			q.Filter.Status = filters["status"]
			q.Filter.Priority = filters["priority"]
		}
	}
	// Bare params win over the filters blob when both are present.
	if v := c.Query("status"); v != "" {
		q.Filter.Status = v
	}
	if v := c.Query("priority"); v != "" {
		q.Filter.Priority = v
	}
	return q
}

// List handles GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	page, err := h.Svc.List(uid, parseListQuery(c))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("list tasks failed")
		response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"tasks":      page.Tasks,
		"totalTasks": page.TotalTasks,
		"page":       page.Page,
		"pageSize":   page.PageSize,
	})
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(uid, req.toInput())
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("create task failed")
		response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		return
	}
	response.Data(c, http.StatusCreated, "Task created successfully", gin.H{"task": t})
}

// Update handles PUT /api/tasks/:id. The full payload is required; partial
// updates are not supported.
func (h *TaskHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("id")

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Update(uid, id, req.toInput())
	if err != nil {
		h.writeTaskError(c, uid, err)
		return
	}
	response.Data(c, http.StatusOK, "Task updated successfully", gin.H{"task": t})
}

// Delete handles DELETE /api/tasks/:id. Deleting an already-deleted id is a
// 404, not a silent success.
func (h *TaskHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("id")

	if err := h.Svc.Delete(uid, id); err != nil {
		h.writeTaskError(c, uid, err)
		return
	}
	response.Message(c, http.StatusOK, "Task deleted successfully")
}

func (h *TaskHandler) writeTaskError(c *gin.Context, uid string, err error) {
	switch {
	case errors.Is(err, application.ErrTaskNotFound):
		response.Message(c, http.StatusNotFound, "The requested task does not exist")
	case errors.Is(err, application.ErrTaskForbidden):
		response.Message(c, http.StatusForbidden, response.MsgForbidden)
	default:
		h.Logger.WithError(err).WithField("user_id", uid).Error("task mutation failed")
		response.Message(c, http.StatusInternalServerError, response.MsgServerError)
	}
}
