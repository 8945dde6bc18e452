package repository

import (
	"github.com/yukikurage/intern-task-api/internal/models"
	"gorm.io/gorm"
)

// GormAssigneeRepository is a GORM implementation of AssigneeRepository
type GormAssigneeRepository struct {
	db *gorm.DB
}

// NewAssigneeRepository creates a new AssigneeRepository
func NewAssigneeRepository(db *gorm.DB) AssigneeRepository {
	return &GormAssigneeRepository{db: db}
}

func (r *GormAssigneeRepository) Create(assignee *models.TaskDetailAssignee) error {
	return translate(r.db.Create(assignee).Error)
}

func (r *GormAssigneeRepository) FindByTaskDetailID(taskDetailID uint64) ([]models.TaskDetailAssignee, error) {
	var assignees []models.TaskDetailAssignee
	if err := r.db.Where("task_detail_id = ?", taskDetailID).Order("id ASC").Find(&assignees).Error; err != nil {
		return nil, err
	}
	return assignees, nil
}

// FindUsersByTaskDetailID joins the links with users, in assignment order
func (r *GormAssigneeRepository) FindUsersByTaskDetailID(taskDetailID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN task_detail_assignees ON task_detail_assignees.user_id = users.id").
		Where("task_detail_assignees.task_detail_id = ?", taskDetailID).
		Order("task_detail_assignees.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormAssigneeRepository) FindTaskDetailsByUserID(userID uint64) ([]models.TaskDetail, error) {
	var details []models.TaskDetail
	err := r.db.Model(&models.TaskDetail{}).
		Distinct("task_details.*").
		Joins("JOIN task_detail_assignees ON task_detail_assignees.task_detail_id = task_details.id").
		Where("task_detail_assignees.user_id = ?", userID).
		Order("task_details.id ASC").
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *GormAssigneeRepository) DeleteByTaskDetailID(taskDetailID uint64) (int64, error) {
	result := r.db.Where("task_detail_id = ?", taskDetailID).Delete(&models.TaskDetailAssignee{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}
