package repository

import (
	"github.com/yukikurage/intern-task-api/internal/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

func (r *GormAttachmentRepository) Create(attachment *models.TaskAttachment) error {
	return translate(r.db.Create(attachment).Error)
}

func (r *GormAttachmentRepository) FindByID(id uint64) (*models.TaskAttachment, error) {
	var attachment models.TaskAttachment
	if err := r.db.First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *GormAttachmentRepository) FindByTaskID(taskID uint64) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	if err := r.db.Where("task_id = ?", taskID).Order("id ASC").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *GormAttachmentRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&models.TaskAttachment{}, id)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormAttachmentRepository) DeleteByTaskID(taskID uint64) (int64, error) {
	result := r.db.Where("task_id = ?", taskID).Delete(&models.TaskAttachment{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}
