package models

import (
	"time"
)

// OTPCode 邮箱一次性验证码记录
//
// 同一邮箱任意时刻至多有一条未消费记录（签发新码前旧码统一作废），
// 因此校验时无需区分用途：最新的未消费记录即唯一有效码。
type OTPCode struct {
	ID           uint       `gorm:"primarykey" json:"id"`           // 主键
	Email        string     `gorm:"index;not null" json:"email"`    // 邮箱
	UserID       *uint      `gorm:"index" json:"user_id"`           // 关联用户ID（注册前可为空）
	Code         string     `gorm:"column:otp_code;not null" json:"-"` // 四位验证码（不返回给前端）
	ExpiresAt    time.Time  `gorm:"index" json:"expires_at"`        // 过期时间
	IsUsed       bool       `gorm:"column:is_used;not null;default:false;index" json:"is_used"` // 是否已消费/作废
	VerifiedAt   *time.Time `json:"verified_at"`                    // 校验成功时间
	AttemptCount int        `gorm:"default:0" json:"attempt_count"` // 错误尝试次数
	SentAt       time.Time  `gorm:"index" json:"sent_at"`           // 发送时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`        // 创建时间
}

// TableName 指定表名
func (OTPCode) TableName() string {
	return "otp_codes"
}
