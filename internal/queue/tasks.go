package queue

import (
	"encoding/json"

	"github.com/studizen-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskTaskReminderEmail 任务截止提醒邮件任务
	TaskTaskReminderEmail = constants.TaskTypeTaskReminderEmail
	// TaskSubscriptionExpire 订阅到期处理任务
	TaskSubscriptionExpire = constants.TaskTypeSubscriptionExpire
)

// TaskReminderEmailPayload 任务提醒邮件任务载荷
type TaskReminderEmailPayload struct {
	TaskID uint `json:"task_id"`
	UserID uint `json:"user_id"`
}

// SubscriptionExpirePayload 订阅到期任务载荷
type SubscriptionExpirePayload struct {
	SubscriptionID uint `json:"subscription_id"`
	UserID         uint `json:"user_id"`
}

// NewTaskReminderEmailTask 创建任务提醒邮件任务
func NewTaskReminderEmailTask(payload TaskReminderEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTaskReminderEmail, body), nil
}

// NewSubscriptionExpireTask 创建订阅到期任务
func NewSubscriptionExpireTask(payload SubscriptionExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSubscriptionExpire, body), nil
}
