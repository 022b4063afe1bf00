package repository

import (
	"github.com/kite-oss/task-schedule-api/internal/models"
	"gorm.io/gorm"
)

// GormHistoryRepository is a GORM implementation of HistoryRepository
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Recent returns the latest entries for tasks in the scope
func (r *GormHistoryRepository) Recent(scope TaskScope, limit int) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory

	query := r.db.Model(&models.TaskHistory{})
	query = scopeTasks(r.db, query, scope, "task_histories.task_id")

	err := query.
		Preload("Task").
		Preload("PerformedBy").
		Order("task_histories.timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// withComment narrows a history query to entries carrying a follow-up
// comment. A comment lives either in the denormalized column or under the
// follow_comment key of the JSON payload; the payload check is a LIKE over
// the serialized column, which both mysql and sqlite execute.
func withComment(query *gorm.DB) *gorm.DB {
	return query.
		Where("task_histories.action = ?", models.HistoryActionUpdated).
		Where("(task_histories.comment IS NOT NULL AND task_histories.comment <> '') OR task_histories.details LIKE ?",
			`%"follow_comment"%`)
}

// CommentEntries returns comment-carrying entries for tasks in the scope,
// newest first, with the total count for pagination.
func (r *GormHistoryRepository) CommentEntries(scope TaskScope, offset, limit int) ([]models.TaskHistory, int64, error) {
	query := r.db.Model(&models.TaskHistory{})
	query = scopeTasks(r.db, query, scope, "task_histories.task_id")
	query = withComment(query)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.TaskHistory
	err := query.
		Preload("Task").
		Preload("PerformedBy").
		Order("task_histories.timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// TaskCommentEntries returns comment-carrying entries for one task
func (r *GormHistoryRepository) TaskCommentEntries(taskID uint64) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory

	query := r.db.Model(&models.TaskHistory{}).
		Where("task_histories.task_id = ?", taskID)
	query = withComment(query)

	err := query.
		Preload("PerformedBy").
		Order("task_histories.timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
