package repository

import (
	"errors"
	"time"

	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository 订阅记录数据访问接口
type SubscriptionRepository interface {
	GetByID(id uint) (*models.Subscription, error)
	GetActiveByUser(userID uint, now time.Time) (*models.Subscription, error)
	ListByUser(userID uint) ([]models.Subscription, error)
	List(filter SubscriptionListFilter) ([]models.Subscription, int64, error)
	Create(sub *models.Subscription) error
	Update(sub *models.Subscription) error
	MarkExpired(id uint) error
	ExpireOverdue(now time.Time) (int64, error)
}

// GormSubscriptionRepository GORM 实现
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建订阅仓库
func NewSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// GetByID 根据 ID 获取订阅
func (r *GormSubscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan").First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// GetActiveByUser 获取用户当前生效的订阅（到期最晚的一条）
func (r *GormSubscriptionRepository) GetActiveByUser(userID uint, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan").
		Where("user_id = ? AND status = ? AND starts_at <= ? AND expires_at > ?",
			userID, constants.SubscriptionStatusActive, now, now).
		Order("expires_at desc, id desc").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ListByUser 获取用户全部订阅记录
func (r *GormSubscriptionRepository) ListByUser(userID uint) ([]models.Subscription, error) {
	subs := make([]models.Subscription, 0)
	if err := r.db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// List 订阅记录列表
func (r *GormSubscriptionRepository) List(filter SubscriptionListFilter) ([]models.Subscription, int64, error) {
	query := r.db.Model(&models.Subscription{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PlanID > 0 {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	subs := make([]models.Subscription, 0)
	if err := query.Preload("Plan").Order("id DESC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// Create 创建订阅
func (r *GormSubscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// Update 更新订阅
func (r *GormSubscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

// MarkExpired 标记订阅为已过期
func (r *GormSubscriptionRepository) MarkExpired(id uint) error {
	return r.db.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, constants.SubscriptionStatusActive).
		Update("status", constants.SubscriptionStatusExpired).Error
}

// ExpireOverdue 批量过期已到期的订阅，返回影响条数
func (r *GormSubscriptionRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.Subscription{}).
		Where("status = ? AND expires_at <= ?", constants.SubscriptionStatusActive, now).
		Update("status", constants.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
