package models

import (
	"time"

	"gorm.io/gorm"
)

// Task 学习任务表
type Task struct {
	ID             uint           `gorm:"primarykey" json:"id"`                  // 主键
	UserID         uint           `gorm:"index;not null" json:"user_id"`         // 所属用户
	Title          string         `gorm:"not null" json:"title"`                 // 任务标题
	Description    string         `gorm:"type:text;default:''" json:"description"` // 任务描述
	Status         string         `gorm:"default:'pending';index" json:"status"` // 状态（pending/in_progress/completed）
	Priority       string         `gorm:"default:'medium';index" json:"priority"` // 优先级（low/medium/high）
	DueAt          *time.Time     `gorm:"index" json:"due_at"`                   // 截止时间
	CompletedAt    *time.Time     `json:"completed_at"`                          // 完成时间
	ReminderTaskID string         `gorm:"default:''" json:"-"`                   // 已排队的提醒任务ID（重排时取消旧任务）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                            // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间
}

// TableName 指定表名
func (Task) TableName() string {
	return "tasks"
}
