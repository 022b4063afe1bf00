package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/policy"
	"github.com/kite-oss/task-schedule-api/internal/repository"
	"github.com/kite-oss/task-schedule-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrPermissionDenied    = errors.New("you do not have permission to perform this action")
	ErrCompletedRestricted = errors.New("only admin and staff can mark tasks as completed")
	ErrTitleRequired       = errors.New("title is required")
)

// ValidationError reports a bad value for a named request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnknownAssigneeError names an assignee email that did not resolve to a
// user. Fatal at creation time; skipped with a warning during update.
type UnknownAssigneeError struct {
	Email string
}

func (e *UnknownAssigneeError) Error() string {
	return fmt.Sprintf("assignee %s does not exist", e.Email)
}

// Mailer is the notification collaborator. Delivery is best-effort: the
// task lifecycle never depends on its outcome.
type Mailer interface {
	NotifyAssignment(task models.Task, assignee models.User) error
}

// taskDetailPreloads is everything a single-task read returns.
var taskDetailPreloads = []string{
	"CreatedBy",
	"Assignments",
	"Assignments.User",
	"History",
	"History.PerformedBy",
	"Attachments",
}

// TaskService orchestrates the task lifecycle: policy-gated reads, diffed
// updates feeding the history ledger, cascading deletes, and creation with
// assignment notifications.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	mailer   Mailer
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService. mailer may be nil when
// notifications are not configured; a nil logger falls back to
// slog.Default.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, mailer Mailer, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		mailer:   mailer,
		logger:   logger,
	}
}

// GetTask returns a task with all related data after the view policy and
// the overdue recomputation.
func (s *TaskService) GetTask(taskID uint64, actor models.User) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanPerform(actor, *task, policy.OpView) {
		return nil, ErrPermissionDenied
	}

	if err := s.refreshStatus(task); err != nil {
		return nil, err
	}

	return task, nil
}

// ListTasks returns the tasks visible to the actor, newest first, with
// derived statuses.
func (s *TaskService) ListTasks(actor models.User) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(taskScopeFor(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	for i := range tasks {
		if err := s.refreshStatus(&tasks[i]); err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

// Dashboard returns the status counters over the actor's visible tasks.
func (s *TaskService) Dashboard(actor models.User) (repository.TaskStats, error) {
	return s.taskRepo.Stats(taskScopeFor(actor))
}

// refreshStatus persists the pending→overdue rewrite when the due date has
// passed. Only the status column is written; repeated calls are no-ops.
func (s *TaskService) refreshStatus(task *models.Task) error {
	if !task.RefreshStatus(time.Now()) {
		return nil
	}
	if err := s.taskRepo.UpdateStatus(task.ID, task.Status); err != nil {
		return fmt.Errorf("failed to persist overdue status: %w", err)
	}
	return nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.TaskPriority
	Reminder1   *time.Time
	Reminder2   *time.Time
	Assignees   []string
}

// CreateTask persists a new task with one assignment per assignee email,
// each snapshotting the assignee's current department, then notifies every
// assignee. Unknown emails abort the whole create.
func (s *TaskService) CreateTask(actor models.User, input CreateTaskInput) (*models.Task, error) {
	if !policy.CanCreate(actor) {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, &ValidationError{Field: "priority", Message: fmt.Sprintf("invalid priority %q", input.Priority)}
	}

	// Resolve every assignee before touching storage: creation is strict
	// about unknown emails, unlike update.
	assignees := make([]models.User, 0, len(input.Assignees))
	seen := make(map[string]bool)
	for _, email := range input.Assignees {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true

		user, err := s.userRepo.FindByEmail(email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &UnknownAssigneeError{Email: email}
			}
			return nil, fmt.Errorf("failed to resolve assignee %s: %w", email, err)
		}
		assignees = append(assignees, *user)
	}

	creatorID := actor.ID
	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		DueDate:        input.DueDate,
		Priority:       input.Priority,
		Status:         models.TaskStatusPending,
		Reminder1:      input.Reminder1,
		Reminder2:      input.Reminder2,
		CreatedByID:    &creatorID,
		CreatedByEmail: actor.Email,
	}

	err := s.taskRepo.Transaction(func(tx repository.TaskRepository) error {
		if err := tx.Create(task); err != nil {
			return err
		}
		return tx.CreateAssignments(buildAssignments(task.ID, assignees))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.FindByID(task.ID, taskDetailPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	s.notifyAssignees(*created, assignees)

	return created, nil
}

// notifyAssignees fires assignment notifications without blocking the
// request; a delivery failure is logged and never surfaced.
func (s *TaskService) notifyAssignees(task models.Task, assignees []models.User) {
	if s.mailer == nil {
		return
	}
	for _, assignee := range assignees {
		go func(a models.User) {
			if err := s.mailer.NotifyAssignment(task, a); err != nil {
				s.logger.Warn("assignment notification failed",
					"task_id", task.ID, "assignee", a.Email, "error", err)
			}
		}(assignee)
	}
}

func buildAssignments(taskID uint64, assignees []models.User) []models.TaskAssignment {
	assignments := make([]models.TaskAssignment, 0, len(assignees))
	for _, a := range assignees {
		assignments = append(assignments, models.TaskAssignment{
			TaskID:     taskID,
			UserID:     a.ID,
			Department: a.DepartmentOrGeneral(),
		})
	}
	return assignments
}

// UpdateTaskInput carries the request fields. A nil pointer means the field
// was absent; timestamps arrive as raw text so equal instants in different
// forms can be normalized before the diff.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *string
	Priority      *string
	Status        *string
	Reminder1     *string
	Reminder2     *string
	Assignees     *[]string
	FollowComment string
}

func (in UpdateTaskInput) touchesFields() bool {
	return in.Title != nil || in.Description != nil || in.DueDate != nil ||
		in.Priority != nil || in.Status != nil ||
		in.Reminder1 != nil || in.Reminder2 != nil || in.Assignees != nil
}

// UpdateTask applies a diffed update. Only real value changes enter the
// diff; the task row, replaced assignments, and the history entry commit in
// one transaction; no write happens at all for a no-op request.
func (s *TaskService) UpdateTask(taskID uint64, actor models.User, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	touchesFields := input.touchesFields()
	followComment := strings.TrimSpace(input.FollowComment)

	// The completed transition has its own gate with its own denial,
	// checked against the requested value before any other permission so
	// the caller learns the real reason.
	if input.Status != nil && models.TaskStatus(*input.Status) == models.TaskStatusCompleted {
		if !policy.CanPerform(actor, *task, policy.OpMarkCompleted) {
			return nil, ErrCompletedRestricted
		}
	}

	// Field edits need edit rights; a bare follow-up comment only needs the
	// task to be visible to the actor.
	if touchesFields {
		if !policy.CanPerform(actor, *task, policy.OpEdit) {
			return nil, ErrPermissionDenied
		}
	} else if !policy.CanPerform(actor, *task, policy.OpView) {
		return nil, ErrPermissionDenied
	}

	changes := make(map[string]models.FieldChange)

	if input.Title != nil && *input.Title != task.Title {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		changes["title"] = models.FieldChange{Old: task.Title, New: *input.Title}
		task.Title = *input.Title
	}
	if input.Description != nil && *input.Description != task.Description {
		changes["description"] = models.FieldChange{Old: task.Description, New: *input.Description}
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		if err := diffTimeField(&task.DueDate, "due_date", *input.DueDate, changes); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		priority := models.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return nil, &ValidationError{Field: "priority", Message: fmt.Sprintf("invalid priority %q", priority)}
		}
		if priority != task.Priority {
			changes["priority"] = models.FieldChange{Old: string(task.Priority), New: string(priority)}
			task.Priority = priority
		}
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", status)}
		}
		if status != task.Status {
			changes["status"] = models.FieldChange{Old: string(task.Status), New: string(status)}
			task.Status = status

			if task.Status == models.TaskStatusCompleted && task.CompletedAt == nil {
				now := time.Now()
				task.CompletedAt = &now
			} else if task.Status != models.TaskStatusCompleted && task.CompletedAt != nil {
				task.CompletedAt = nil
			}
		}
	}
	if input.Reminder1 != nil {
		if err := diffTimeField(&task.Reminder1, "reminder1", *input.Reminder1, changes); err != nil {
			return nil, err
		}
	}
	if input.Reminder2 != nil {
		if err := diffTimeField(&task.Reminder2, "reminder2", *input.Reminder2, changes); err != nil {
			return nil, err
		}
	}

	// Assignee list replacement is delete-all-recreate. Unknown emails are
	// skipped here, unlike at creation time.
	var newAssignments []models.TaskAssignment
	if input.Assignees != nil {
		assignees := s.resolveAssigneesLenient(*input.Assignees)
		newAssignments = buildAssignments(task.ID, assignees)
	}

	hasChanges := len(changes) > 0
	shouldSave := hasChanges || followComment != ""

	if !shouldSave && input.Assignees == nil {
		// No-op request: no write, no history row.
		return s.taskRepo.FindByID(task.ID, taskDetailPreloads...)
	}

	err = s.taskRepo.Transaction(func(tx repository.TaskRepository) error {
		if input.Assignees != nil {
			if err := tx.ReplaceAssignments(task.ID, newAssignments); err != nil {
				return err
			}
		}

		if !shouldSave {
			return nil
		}

		if err := tx.Save(task); err != nil {
			return err
		}

		details := models.HistoryDetails{
			Changes:       changes,
			UpdatedFields: changedFieldNames(changes),
		}
		var comment *string
		if followComment != "" {
			details.FollowComment = followComment
			comment = &followComment
		}

		performedBy := actor.ID
		return tx.CreateHistory(&models.TaskHistory{
			TaskID:        task.ID,
			Action:        models.HistoryActionUpdated,
			PerformedByID: &performedBy,
			Details:       details,
			Comment:       comment,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskDetailPreloads...)
}

// resolveAssigneesLenient resolves assignee emails, skipping unknowns with
// a warning. Partial assignment success is accepted on update.
func (s *TaskService) resolveAssigneesLenient(emails []string) []models.User {
	assignees := make([]models.User, 0, len(emails))
	seen := make(map[string]bool)
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true

		user, err := s.userRepo.FindByEmail(email)
		if err != nil {
			s.logger.Warn("skipping unresolved assignee", "assignee", email, "error", err)
			continue
		}
		assignees = append(assignees, *user)
	}
	return assignees
}

// diffTimeField parses raw text into dst, recording a change only when the
// instants actually differ. Empty text clears the field.
func diffTimeField(dst **time.Time, field, raw string, changes map[string]models.FieldChange) error {
	var parsed *time.Time
	if strings.TrimSpace(raw) != "" {
		t, err := utils.ParseFlexibleTime(raw)
		if err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
		parsed = &t
	}

	if utils.EqualTimePtr(*dst, parsed) {
		return nil
	}

	changes[field] = models.FieldChange{
		Old: utils.FormatTimePtr(*dst),
		New: utils.FormatTimePtr(parsed),
	}
	*dst = parsed
	return nil
}

func changedFieldNames(changes map[string]models.FieldChange) []string {
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	return names
}

// DeleteTask removes a task after the delete policy, cascading assignments,
// history, and attachments.
func (s *TaskService) DeleteTask(taskID uint64, actor models.User) error {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanPerform(actor, *task, policy.OpDelete) {
		return ErrPermissionDenied
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
