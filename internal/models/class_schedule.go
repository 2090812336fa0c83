package models

import (
	"time"

	"gorm.io/gorm"
)

// ClassSchedule 课程表条目
type ClassSchedule struct {
	ID         uint           `gorm:"primarykey" json:"id"`                   // 主键
	UserID     uint           `gorm:"index;not null" json:"user_id"`          // 所属用户
	CourseName string         `gorm:"not null" json:"course_name"`            // 课程名称
	Lecturer   string         `gorm:"default:''" json:"lecturer"`             // 授课教师
	Room       string         `gorm:"default:''" json:"room"`                 // 教室/地点
	DayOfWeek  int            `gorm:"not null;index" json:"day_of_week"`      // 星期（1=周一 ... 7=周日）
	StartTime  string         `gorm:"type:varchar(5);not null" json:"start_time"` // 开始时间（HH:MM）
	EndTime    string         `gorm:"type:varchar(5);not null" json:"end_time"`   // 结束时间（HH:MM）
	Color      string         `gorm:"type:varchar(16);default:''" json:"color"`   // 前端展示色块
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (ClassSchedule) TableName() string {
	return "class_schedules"
}
