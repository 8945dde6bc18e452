package repository

import (
	"github.com/yukikurage/intern-task-api/internal/database"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List retrieves a page of tasks, newest first
func (r *GormTaskRepository) List(params utils.PaginationParams) ([]models.Task, int64, error) {
	var total int64
	if err := r.db.Model(&models.Task{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := r.db.
		Scopes(database.NewestFirst, database.Paginate(params)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return translate(r.db.Create(task).Error)
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return translate(r.db.Save(task).Error)
}

// Delete removes the task row
func (r *GormTaskRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
