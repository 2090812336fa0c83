package repository

import (
	"errors"

	"github.com/studizen-api/internal/models"

	"gorm.io/gorm"
)

// ClassScheduleRepository 课程表数据访问接口
type ClassScheduleRepository interface {
	GetByID(id uint) (*models.ClassSchedule, error)
	ListByUser(filter ScheduleListFilter) ([]models.ClassSchedule, error)
	Create(schedule *models.ClassSchedule) error
	Update(schedule *models.ClassSchedule) error
	Delete(id uint) error
}

// GormClassScheduleRepository GORM 实现
type GormClassScheduleRepository struct {
	db *gorm.DB
}

// NewClassScheduleRepository 创建课程表仓库
func NewClassScheduleRepository(db *gorm.DB) *GormClassScheduleRepository {
	return &GormClassScheduleRepository{db: db}
}

// GetByID 根据 ID 获取课程
func (r *GormClassScheduleRepository) GetByID(id uint) (*models.ClassSchedule, error) {
	var schedule models.ClassSchedule
	if err := r.db.First(&schedule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

// ListByUser 获取用户课程表（按星期和开始时间排序）
func (r *GormClassScheduleRepository) ListByUser(filter ScheduleListFilter) ([]models.ClassSchedule, error) {
	query := r.db.Where("user_id = ?", filter.UserID)
	if filter.DayOfWeek > 0 {
		query = query.Where("day_of_week = ?", filter.DayOfWeek)
	}

	schedules := make([]models.ClassSchedule, 0)
	if err := query.Order("day_of_week ASC, start_time ASC, id ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// Create 创建课程
func (r *GormClassScheduleRepository) Create(schedule *models.ClassSchedule) error {
	return r.db.Create(schedule).Error
}

// Update 更新课程
func (r *GormClassScheduleRepository) Update(schedule *models.ClassSchedule) error {
	return r.db.Save(schedule).Error
}

// Delete 删除课程（软删除）
func (r *GormClassScheduleRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.ClassSchedule{}, id).Error
}
