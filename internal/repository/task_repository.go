package repository

import (
	"github.com/kite-oss/task-schedule-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction.
func (r *GormTaskRepository) Transaction(fn func(tx TaskRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskRepository{db: tx})
	})
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// scopeTasks narrows a task query to the visible set. taskIDColumn names
// the column holding the task ID in the outer query.
func scopeTasks(db *gorm.DB, query *gorm.DB, scope TaskScope, taskIDColumn string) *gorm.DB {
	if scope.All {
		return query
	}
	if scope.Department != "" {
		sub := db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = "+taskIDColumn).
			Where("task_assignments.department = ?", scope.Department)
		return query.Where("EXISTS (?)", sub)
	}
	if scope.AssigneeID != nil {
		sub := db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = "+taskIDColumn).
			Where("task_assignments.user_id = ?", *scope.AssigneeID)
		return query.Where("EXISTS (?)", sub)
	}
	// Zero scope matches nothing.
	return query.Where("1 = 0")
}

// List retrieves tasks visible in the scope, newest first
func (r *GormTaskRepository) List(scope TaskScope) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	query = scopeTasks(r.db, query, scope, "tasks.id")

	err := query.
		Preload("CreatedBy").
		Preload("Assignments").
		Preload("Assignments.User").
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Save persists all fields of a task. Associations are omitted so a task
// loaded with stale Assignments never re-inserts rows that
// ReplaceAssignments already deleted in the same transaction.
func (r *GormTaskRepository) Save(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// UpdateStatus rewrites only the status column. Used by the overdue
// recomputation on reads, which must never touch other columns.
func (r *GormTaskRepository) UpdateStatus(id uint64, status models.TaskStatus) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes a task and everything hanging off it in one transaction.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// ReplaceAssignments deletes all current assignments for the task and
// inserts the given set.
func (r *GormTaskRepository) ReplaceAssignments(taskID uint64, assignments []models.TaskAssignment) error {
	if err := r.db.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}
	return r.db.Create(&assignments).Error
}

// CreateAssignments inserts assignments for a task
func (r *GormTaskRepository) CreateAssignments(assignments []models.TaskAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.Create(&assignments).Error
}

// CreateHistory appends an entry to the history ledger
func (r *GormTaskRepository) CreateHistory(entry *models.TaskHistory) error {
	return r.db.Create(entry).Error
}

// Stats returns the dashboard counters for the scope
func (r *GormTaskRepository) Stats(scope TaskScope) (TaskStats, error) {
	var stats TaskStats

	base := scopeTasks(r.db, r.db.Model(&models.Task{}), scope, "tasks.id")
	if err := base.Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	completed := scopeTasks(r.db, r.db.Model(&models.Task{}), scope, "tasks.id")
	if err := completed.Where("tasks.status = ?", models.TaskStatusCompleted).Count(&stats.Completed).Error; err != nil {
		return stats, err
	}

	// Overdue tasks are still ongoing: anything not completed counts.
	ongoing := scopeTasks(r.db, r.db.Model(&models.Task{}), scope, "tasks.id")
	if err := ongoing.Where("tasks.status <> ?", models.TaskStatusCompleted).Count(&stats.Ongoing).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
