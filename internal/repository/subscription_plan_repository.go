package repository

import (
	"errors"

	"github.com/studizen-api/internal/models"

	"gorm.io/gorm"
)

// SubscriptionPlanRepository 订阅套餐数据访问接口
type SubscriptionPlanRepository interface {
	GetByID(id uint) (*models.SubscriptionPlan, error)
	GetBySlug(slug string) (*models.SubscriptionPlan, error)
	List(filter PlanListFilter) ([]models.SubscriptionPlan, int64, error)
	Create(plan *models.SubscriptionPlan) error
	Update(plan *models.SubscriptionPlan) error
	Delete(id uint) error
}

// GormSubscriptionPlanRepository GORM 实现
type GormSubscriptionPlanRepository struct {
	db *gorm.DB
}

// NewSubscriptionPlanRepository 创建订阅套餐仓库
func NewSubscriptionPlanRepository(db *gorm.DB) *GormSubscriptionPlanRepository {
	return &GormSubscriptionPlanRepository{db: db}
}

// GetByID 根据 ID 获取套餐
func (r *GormSubscriptionPlanRepository) GetByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetBySlug 根据唯一标识获取套餐
func (r *GormSubscriptionPlanRepository) GetBySlug(slug string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("slug = ?", slug).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// List 套餐列表
func (r *GormSubscriptionPlanRepository) List(filter PlanListFilter) ([]models.SubscriptionPlan, int64, error) {
	query := r.db.Model(&models.SubscriptionPlan{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("slug LIKE ?", like)
	}
	if filter.EnabledOnly {
		query = query.Where("enabled = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	plans := make([]models.SubscriptionPlan, 0)
	if err := query.Order("sort_order ASC, id ASC").Find(&plans).Error; err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// Create 创建套餐
func (r *GormSubscriptionPlanRepository) Create(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

// Update 更新套餐
func (r *GormSubscriptionPlanRepository) Update(plan *models.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}

// Delete 删除套餐（软删除）
func (r *GormSubscriptionPlanRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.SubscriptionPlan{}, id).Error
}
