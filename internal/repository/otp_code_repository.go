package repository

import (
	"errors"
	"time"

	"github.com/studizen-api/internal/models"

	"gorm.io/gorm"
)

// OTPCodeRepository 邮箱验证码数据访问接口
type OTPCodeRepository interface {
	Create(code *models.OTPCode) error
	GetLatestByEmail(email string) (*models.OTPCode, error)
	GetLatestUnusedByEmail(email string) (*models.OTPCode, error)
	ListUnusedByEmailAndCode(email, code string) ([]models.OTPCode, error)
	SupersedeUnusedByEmail(email string) (int64, error)
	MarkUsed(id uint, verifiedAt time.Time) error
	MarkSuperseded(ids []uint) error
	IncrementAttempt(id uint) error
	CountUnusedByEmail(email string) (int64, error)
}

// GormOTPCodeRepository GORM 实现
type GormOTPCodeRepository struct {
	db *gorm.DB
}

// NewOTPCodeRepository 创建验证码仓库
func NewOTPCodeRepository(db *gorm.DB) *GormOTPCodeRepository {
	return &GormOTPCodeRepository{db: db}
}

// Create 创建验证码记录
func (r *GormOTPCodeRepository) Create(code *models.OTPCode) error {
	return r.db.Create(code).Error
}

// GetLatestByEmail 获取该邮箱最新一条记录（无论是否已消费，用于发送间隔检查）
func (r *GormOTPCodeRepository) GetLatestByEmail(email string) (*models.OTPCode, error) {
	var record models.OTPCode
	if err := r.db.Where("email = ?", email).
		Order("sent_at desc, id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetLatestUnusedByEmail 获取该邮箱最新一条未消费记录
func (r *GormOTPCodeRepository) GetLatestUnusedByEmail(email string) (*models.OTPCode, error) {
	var record models.OTPCode
	if err := r.db.Where("email = ? AND is_used = ?", email, false).
		Order("sent_at desc, id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListUnusedByEmailAndCode 按新到旧列出该邮箱与码值匹配的未消费记录
func (r *GormOTPCodeRepository) ListUnusedByEmailAndCode(email, code string) ([]models.OTPCode, error) {
	records := make([]models.OTPCode, 0)
	if err := r.db.Where("email = ? AND otp_code = ? AND is_used = ?", email, code, false).
		Order("sent_at desc, id desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SupersedeUnusedByEmail 作废该邮箱全部未消费记录，返回作废条数
func (r *GormOTPCodeRepository) SupersedeUnusedByEmail(email string) (int64, error) {
	result := r.db.Model(&models.OTPCode{}).
		Where("email = ? AND is_used = ?", email, false).
		Update("is_used", true)
	return result.RowsAffected, result.Error
}

// MarkUsed 标记验证码已消费
func (r *GormOTPCodeRepository) MarkUsed(id uint, verifiedAt time.Time) error {
	return r.db.Model(&models.OTPCode{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_used":     true,
			"verified_at": verifiedAt,
		}).Error
}

// MarkSuperseded 批量作废指定记录（不落 verified_at）
func (r *GormOTPCodeRepository) MarkSuperseded(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.OTPCode{}).
		Where("id IN ?", ids).
		Update("is_used", true).Error
}

// IncrementAttempt 增加错误尝试次数
func (r *GormOTPCodeRepository) IncrementAttempt(id uint) error {
	return r.db.Model(&models.OTPCode{}).
		Where("id = ?", id).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1")).Error
}

// CountUnusedByEmail 统计该邮箱未消费记录数
func (r *GormOTPCodeRepository) CountUnusedByEmail(email string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.OTPCode{}).
		Where("email = ? AND is_used = ?", email, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
