package repository

import (
	"github.com/yukikurage/intern-task-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskDetailRepository is a GORM implementation of TaskDetailRepository
type GormTaskDetailRepository struct {
	db *gorm.DB
}

// NewTaskDetailRepository creates a new TaskDetailRepository
func NewTaskDetailRepository(db *gorm.DB) TaskDetailRepository {
	return &GormTaskDetailRepository{db: db}
}

func (r *GormTaskDetailRepository) List() ([]models.TaskDetail, error) {
	var details []models.TaskDetail
	if err := r.db.Order("id ASC").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *GormTaskDetailRepository) FindByID(id uint64) (*models.TaskDetail, error) {
	var detail models.TaskDetail
	if err := r.db.First(&detail, id).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *GormTaskDetailRepository) FindByTaskID(taskID uint64) ([]models.TaskDetail, error) {
	var details []models.TaskDetail
	if err := r.db.Where("task_id = ?", taskID).Order("id ASC").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *GormTaskDetailRepository) Create(detail *models.TaskDetail) error {
	return translate(r.db.Create(detail).Error)
}

func (r *GormTaskDetailRepository) Update(detail *models.TaskDetail) error {
	return translate(r.db.Save(detail).Error)
}

func (r *GormTaskDetailRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&models.TaskDetail{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormTaskDetailRepository) CountIncompleteByTaskID(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskDetail{}).
		Where("task_id = ? AND status <> ?", taskID, models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}
