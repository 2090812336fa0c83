package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan 会员订阅套餐表
type SubscriptionPlan struct {
	ID           uint           `gorm:"primarykey" json:"id"`               // 主键
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`   // 唯一标识
	NameJSON     JSON           `gorm:"type:json;not null" json:"name"`     // 多语言名称
	Description  JSON           `gorm:"type:json" json:"description"`       // 多语言描述
	Price        Money          `gorm:"type:decimal(12,2);not null" json:"price"` // 价格
	Currency     string         `gorm:"type:varchar(8);default:'IDR'" json:"currency"` // 币种
	DurationDays int            `gorm:"not null" json:"duration_days"`      // 订阅时长（天）
	Features     StringArray    `gorm:"type:json" json:"features"`          // 权益列表
	// 不能挂 default 标签：gorm 会在插入时跳过零值字段，停售套餐会被存成可售
	Enabled      bool           `gorm:"not null;index" json:"enabled"`      // 是否可售
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`  // 排序权重
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`            // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                         // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                     // 软删除时间
}

// TableName 指定表名
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}
