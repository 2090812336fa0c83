package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/provider"
	"github.com/studizen-api/internal/queue"
	"github.com/studizen-api/internal/repository"
	"github.com/studizen-api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func newWorkerTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}, &models.SubscriptionPlan{}, &models.Subscription{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewSubscriptionPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	container := &provider.Container{
		Config:         cfg,
		UserRepo:       userRepo,
		TaskRepo:       repository.NewTaskRepository(db),
		PremiumService: service.NewPremiumService(cfg, planRepo, subRepo, userRepo, nil),
	}
	return NewConsumer(container), db
}

func reminderTask(t *testing.T, payload queue.TaskReminderEmailPayload) *asynq.Task {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(queue.TaskTaskReminderEmail, raw)
}

func TestHandleTaskReminderEmailSkipsInvalidPayload(t *testing.T) {
	consumer, _ := newWorkerTestConsumer(t)
	if err := consumer.handleTaskReminderEmail(context.Background(), reminderTask(t, queue.TaskReminderEmailPayload{})); err != nil {
		t.Fatalf("invalid payload should be dropped, got %v", err)
	}
	if err := consumer.handleTaskReminderEmail(context.Background(), reminderTask(t, queue.TaskReminderEmailPayload{TaskID: 99, UserID: 99})); err != nil {
		t.Fatalf("missing task should be dropped, got %v", err)
	}
}

func TestHandleTaskReminderEmailSkipsCompletedTask(t *testing.T) {
	consumer, db := newWorkerTestConsumer(t)
	due := time.Now().Add(2 * time.Hour)
	user := &models.User{Email: "done@example.com", Status: constants.UserStatusActive}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	task := &models.Task{
		UserID: user.ID,
		Title:  "tugas selesai",
		Status: constants.TaskStatusCompleted,
		DueAt:  &due,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task failed: %v", err)
	}

	payload := queue.TaskReminderEmailPayload{TaskID: task.ID, UserID: user.ID}
	if err := consumer.handleTaskReminderEmail(context.Background(), reminderTask(t, payload)); err != nil {
		t.Fatalf("completed task should be dropped, got %v", err)
	}
}

func TestHandleTaskReminderEmailSkipsNonPremiumUser(t *testing.T) {
	consumer, db := newWorkerTestConsumer(t)
	due := time.Now().Add(2 * time.Hour)
	user := &models.User{Email: "free@example.com", Status: constants.UserStatusActive}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	task := &models.Task{
		UserID: user.ID,
		Title:  "tugas gratis",
		Status: constants.TaskStatusPending,
		DueAt:  &due,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task failed: %v", err)
	}

	// 排队后订阅已失效则提醒静默丢弃
	payload := queue.TaskReminderEmailPayload{TaskID: task.ID, UserID: user.ID}
	if err := consumer.handleTaskReminderEmail(context.Background(), reminderTask(t, payload)); err != nil {
		t.Fatalf("non premium user should be dropped, got %v", err)
	}
}

func TestHandleSubscriptionExpireSkipsInvalidPayload(t *testing.T) {
	consumer, _ := newWorkerTestConsumer(t)
	raw, err := json.Marshal(queue.SubscriptionExpirePayload{})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskSubscriptionExpire, raw)
	if err := consumer.handleSubscriptionExpire(context.Background(), task); err != nil {
		t.Fatalf("invalid payload should be dropped, got %v", err)
	}
}

func TestHandleSubscriptionExpireMissingRecord(t *testing.T) {
	consumer, _ := newWorkerTestConsumer(t)
	raw, err := json.Marshal(queue.SubscriptionExpirePayload{SubscriptionID: 404, UserID: 1})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskSubscriptionExpire, raw)
	if err := consumer.handleSubscriptionExpire(context.Background(), task); err != nil {
		t.Fatalf("missing subscription should be a no-op, got %v", err)
	}
}
