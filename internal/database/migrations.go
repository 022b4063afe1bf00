package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds composite indexes for the hot query paths. Single-column
// indexes come from the model tags; these cover the overdue scan, per-task
// ledger reads and the department-scoped assignment lookups.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_status_due_date", "status, due_date"},
		{"task_histories", "idx_task_histories_task_timestamp", "task_id, timestamp"},
		{"task_assignments", "idx_task_assignments_dept_task", "department, task_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
