package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription 用户订阅记录表
type Subscription struct {
	ID         uint           `gorm:"primarykey" json:"id"`                  // 主键
	UserID     uint           `gorm:"index;not null" json:"user_id"`         // 所属用户
	PlanID     uint           `gorm:"index;not null" json:"plan_id"`         // 套餐ID
	Status     string         `gorm:"default:'active';index" json:"status"`  // 状态（active/expired/canceled）
	Source     string         `gorm:"default:'purchase'" json:"source"`      // 来源（purchase/trial/admin_grant）
	StartsAt   time.Time      `gorm:"index" json:"starts_at"`                // 生效时间
	ExpiresAt  time.Time      `gorm:"index" json:"expires_at"`               // 到期时间
	CanceledAt *time.Time     `json:"canceled_at"`                           // 取消时间
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                            // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间

	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"` // 关联套餐
}

// TableName 指定表名
func (Subscription) TableName() string {
	return "subscriptions"
}
