package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Status        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	LastLoginFrom *time.Time
	LastLoginTo   *time.Time
}

// TaskListFilter 查询任务列表的过滤条件
type TaskListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	Priority string
	Keyword  string
	DueFrom  *time.Time
	DueTo    *time.Time
	OrderBy  string
}

// ScheduleListFilter 查询课程表的过滤条件
type ScheduleListFilter struct {
	UserID    uint
	DayOfWeek int
}

// PlanListFilter 查询订阅套餐列表的过滤条件
type PlanListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	EnabledOnly bool
}

// SubscriptionListFilter 查询订阅记录列表的过滤条件
type SubscriptionListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	PlanID      uint
	Status      string
	Source      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
