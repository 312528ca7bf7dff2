package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projectzen/board-api/internal/dto"
	apierrors "github.com/projectzen/board-api/internal/errors"
	"github.com/projectzen/board-api/internal/middleware"
	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/services"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task on a project board. Omitting assigned_to
// triggers smart assignment.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title        string     `json:"title" binding:"required"`
		Description  string     `json:"description"`
		Status       string     `json:"status"`
		Priority     string     `json:"priority"`
		AssignedTo   *uint64    `json:"assigned_to"`
		Project      uint64     `json:"project" binding:"required"`
		GithubLink   string     `json:"github_link"`
		YoutubeLink  string     `json:"youtube_link"`
		DatabaseLink string     `json:"database_link"`
		Deadline     *time.Time `json:"deadline"`
		Reminder     *time.Time `json:"reminder"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatus(req.Status),
		Priority:     models.TaskPriority(req.Priority),
		AssigneeID:   req.AssignedTo,
		ProjectID:    req.Project,
		GithubLink:   req.GithubLink,
		YoutubeLink:  req.YoutubeLink,
		DatabaseLink: req.DatabaseLink,
		Deadline:     req.Deadline,
		Reminder:     req.Reminder,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns every task of a project, members only.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(userID, projectID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateTask applies a partial update to a task. Fields absent from the
// body are left untouched; explicit nulls clear the optional fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Parse raw JSON to distinguish "absent" from "null".
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := buildUpdateInput(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(actor, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task and its comments.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func buildUpdateInput(raw map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if v, ok := raw["title"]; ok {
		if s, ok := v.(string); ok {
			input.Title = &s
		}
	}
	if v, ok := raw["description"]; ok {
		if s, ok := v.(string); ok {
			input.Description = &s
		}
	}
	if v, ok := raw["status"]; ok {
		if s, ok := v.(string); ok {
			status := models.TaskStatus(s)
			input.Status = &status
		}
	}
	if v, ok := raw["priority"]; ok {
		if s, ok := v.(string); ok {
			priority := models.TaskPriority(s)
			input.Priority = &priority
		}
	}
	if v, ok := raw["assigned_to"]; ok {
		if v == nil {
			input.ClearAssignee = true
		} else if f, ok := v.(float64); ok {
			id := uint64(f)
			input.AssigneeID = &id
		}
	}
	if v, ok := raw["github_link"]; ok {
		if s, ok := v.(string); ok {
			input.GithubLink = &s
		}
	}
	if v, ok := raw["youtube_link"]; ok {
		if s, ok := v.(string); ok {
			input.YoutubeLink = &s
		}
	}
	if v, ok := raw["database_link"]; ok {
		if s, ok := v.(string); ok {
			input.DatabaseLink = &s
		}
	}

	var err error
	if input.Deadline, input.ClearDeadline, err = parseTimeField(raw, "deadline"); err != nil {
		return input, err
	}
	if input.Reminder, input.ClearReminder, err = parseTimeField(raw, "reminder"); err != nil {
		return input, err
	}

	return input, nil
}

func parseTimeField(raw map[string]any, key string) (*time.Time, bool, error) {
	v, ok := raw[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, false, errors.New("invalid " + key)
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false, errors.New("invalid " + key)
	}
	return &parsed, false, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleIsColumnName),
		errors.Is(err, services.ErrTitleTaken),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrAssigneeNotMember):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrTaskAccessDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
