package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the parent-id lookup indexes used by the cascade paths
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Child lookups by parent id
		{"task_details", "idx_task_details_task_id", "task_id"},
		{"task_detail_assignees", "idx_task_detail_assignees_task_detail_id", "task_detail_id"},
		{"task_detail_assignees", "idx_task_detail_assignees_user_id", "user_id"},
		{"task_attachments", "idx_task_attachments_task_id", "task_id"},

		// Task filtering
		{"tasks", "idx_tasks_created_by", "created_by"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_deadline", "deadline"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Debug("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
