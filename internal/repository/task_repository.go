package repository

import (
	"errors"
	"time"

	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/models"

	"gorm.io/gorm"
)

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	GetByID(id uint) (*models.Task, error)
	List(filter TaskListFilter) ([]models.Task, int64, error)
	Create(task *models.Task) error
	Update(task *models.Task) error
	Delete(id uint) error
	CountActiveByUser(userID uint) (int64, error)
	ListDueBetween(from, to time.Time) ([]models.Task, error)
}

// GormTaskRepository GORM 实现
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓库
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// GetByID 根据 ID 获取任务
func (r *GormTaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// List 任务列表
func (r *GormTaskRepository) List(filter TaskListFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_at >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_at <= ?", *filter.DueTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	order := "id DESC"
	if filter.OrderBy == "due_at" {
		order = "due_at IS NULL, due_at ASC, id DESC"
	}

	tasks := make([]models.Task, 0)
	if err := query.Order(order).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Create 创建任务
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// Update 更新任务
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete 删除任务（软删除）
func (r *GormTaskRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Task{}, id).Error
}

// CountActiveByUser 统计用户未完成任务数（免费额度校验用）
func (r *GormTaskRepository) CountActiveByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status <> ?", userID, constants.TaskStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListDueBetween 列出指定时间窗内到期的未完成任务
func (r *GormTaskRepository) ListDueBetween(from, to time.Time) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := r.db.
		Where("due_at >= ? AND due_at <= ? AND status <> ?", from, to, constants.TaskStatusCompleted).
		Order("due_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
