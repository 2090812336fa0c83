package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/provider"
	"github.com/studizen-api/internal/queue"
	"github.com/studizen-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskTaskReminderEmail, c.handleTaskReminderEmail)
	mux.HandleFunc(queue.TaskSubscriptionExpire, c.handleSubscriptionExpire)
}

func (c *Consumer) handleTaskReminderEmail(_ context.Context, asynqTask *asynq.Task) error {
	if c == nil || asynqTask == nil {
		logger.Debugw("worker_task_reminder_skip_nil", "consumer_nil", c == nil, "task_nil", asynqTask == nil)
		return nil
	}
	var payload queue.TaskReminderEmailPayload
	if err := json.Unmarshal(asynqTask.Payload(), &payload); err != nil {
		logger.Warnw("worker_task_reminder_unmarshal_failed", "error", err)
		return err
	}
	if payload.TaskID == 0 || payload.UserID == 0 {
		logger.Debugw("worker_task_reminder_skip_invalid_payload", "task_id", payload.TaskID, "user_id", payload.UserID)
		return nil
	}

	task, err := c.TaskRepo.GetByID(payload.TaskID)
	if err != nil {
		logger.Warnw("worker_task_reminder_fetch_task_failed", "task_id", payload.TaskID, "error", err)
		return err
	}
	if task == nil || task.UserID != payload.UserID {
		logger.Debugw("worker_task_reminder_skip_task_not_found", "task_id", payload.TaskID)
		return nil
	}
	if task.Status == constants.TaskStatusCompleted {
		logger.Debugw("worker_task_reminder_skip_completed", "task_id", task.ID)
		return nil
	}
	if task.DueAt == nil || !task.DueAt.After(time.Now()) {
		logger.Debugw("worker_task_reminder_skip_due_passed", "task_id", task.ID)
		return nil
	}

	// 提醒是会员功能，订阅在排队后过期则不再发送
	if !c.PremiumService.IsPremium(payload.UserID) {
		logger.Debugw("worker_task_reminder_skip_not_premium", "task_id", task.ID, "user_id", payload.UserID)
		return nil
	}

	user, err := c.UserRepo.GetByID(payload.UserID)
	if err != nil {
		logger.Warnw("worker_task_reminder_fetch_user_failed", "task_id", task.ID, "user_id", payload.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_task_reminder_skip_empty_receiver", "task_id", task.ID, "user_id", payload.UserID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_task_reminder_skip_email_service_nil", "task_id", task.ID)
		return nil
	}

	input := service.TaskReminderEmailInput{
		DisplayName: user.DisplayName,
		TaskTitle:   task.Title,
		DueAt:       *task.DueAt,
	}
	if err := c.EmailService.SendTaskReminderEmail(user.Email, input, user.Locale); err != nil {
		logger.Warnw("worker_task_reminder_send_failed",
			"task_id", task.ID,
			"user_id", user.ID,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_task_reminder_sent", "task_id", task.ID, "user_id", user.ID)
	return nil
}

func (c *Consumer) handleSubscriptionExpire(_ context.Context, asynqTask *asynq.Task) error {
	if c == nil || asynqTask == nil {
		logger.Debugw("worker_subscription_expire_skip_nil", "consumer_nil", c == nil, "task_nil", asynqTask == nil)
		return nil
	}
	var payload queue.SubscriptionExpirePayload
	if err := json.Unmarshal(asynqTask.Payload(), &payload); err != nil {
		logger.Warnw("worker_subscription_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.SubscriptionID == 0 {
		logger.Debugw("worker_subscription_expire_skip_invalid_payload", "subscription_id", payload.SubscriptionID)
		return nil
	}

	if err := c.PremiumService.ExpireSubscription(payload.SubscriptionID); err != nil {
		logger.Warnw("worker_subscription_expire_failed", "subscription_id", payload.SubscriptionID, "error", err)
		return err
	}
	logger.Infow("worker_subscription_expired", "subscription_id", payload.SubscriptionID, "user_id", payload.UserID)
	return nil
}
