package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kite-oss/task-schedule-api/internal/dto"
	apierrors "github.com/kite-oss/task-schedule-api/internal/errors"
	"github.com/kite-oss/task-schedule-api/internal/middleware"
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/policy"
	"github.com/kite-oss/task-schedule-api/internal/services"
	"github.com/kite-oss/task-schedule-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// parseOptionalTime parses a timestamp field that may be absent. Empty
// text means the field was not provided.
func parseOptionalTime(raw, field string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := utils.ParseFlexibleTime(raw)
	if err != nil {
		return nil, &services.ValidationError{Field: field, Message: err.Error()}
	}
	return &t, nil
}

// ListTasks returns the tasks visible to the current user, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	tasks, err := h.taskService.ListTasks(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	total := int64(len(tasks))

	start := params.Offset
	if start > len(tasks) {
		start = len(tasks)
	}
	end := start + params.PageSize
	if end > len(tasks) {
		end = len(tasks)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      dto.ToTaskListItemDTOs(tasks[start:end]),
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// Dashboard returns the status counters over the current user's tasks
func (h *TaskHandler) Dashboard(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	stats, err := h.taskService.Dashboard(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTask returns one task with assignments, history and attachments
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	includeComments := policy.CanPerform(actor, *task, policy.OpViewComments)
	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task, includeComments))
}

// CreateTask creates a task with one assignment per assignee email
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	type CreateTaskRequest struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		DueDate     string   `json:"due_date"`
		Priority    string   `json:"priority"`
		Reminder1   string   `json:"reminder1"`
		Reminder2   string   `json:"reminder2"`
		Assignees   []string `json:"assignee"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Title is required")
		return
	}

	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TaskPriority(req.Priority),
		Assignees:   req.Assignees,
	}

	var err error
	if input.DueDate, err = parseOptionalTime(req.DueDate, "due_date"); err != nil {
		respondServiceError(c, err)
		return
	}
	if input.Reminder1, err = parseOptionalTime(req.Reminder1, "reminder1"); err != nil {
		respondServiceError(c, err)
		return
	}
	if input.Reminder2, err = parseOptionalTime(req.Reminder2, "reminder2"); err != nil {
		respondServiceError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDetailDTO(*task, true))
}

// UpdateTask applies a diffed update; only fields present in the request
// body are considered
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title         *string   `json:"title"`
		Description   *string   `json:"description"`
		DueDate       *string   `json:"due_date"`
		Priority      *string   `json:"priority"`
		Status        *string   `json:"status"`
		Reminder1     *string   `json:"reminder1"`
		Reminder2     *string   `json:"reminder2"`
		Assignees     *[]string `json:"assignee"`
		FollowComment string    `json:"follow_comment"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(id, actor, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		Priority:      req.Priority,
		Status:        req.Status,
		Reminder1:     req.Reminder1,
		Reminder2:     req.Reminder2,
		Assignees:     req.Assignees,
		FollowComment: req.FollowComment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	includeComments := policy.CanPerform(actor, *task, policy.OpViewComments)
	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task, includeComments))
}

// DeleteTask removes a task with its assignments, history and attachments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
