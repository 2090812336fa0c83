package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTaskTestService(t *testing.T, cfg *config.Config) (*TaskService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}, &models.SubscriptionPlan{}, &models.Subscription{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	premium := NewPremiumService(cfg,
		repository.NewSubscriptionPlanRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	return NewTaskService(cfg, repository.NewTaskRepository(db), premium, nil), db
}

func grantTestPremium(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	plan := &models.SubscriptionPlan{
		Slug:         fmt.Sprintf("plan-%d", userID),
		NameJSON:     models.JSON(map[string]interface{}{"en-US": "Premium"}),
		Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(29000)),
		DurationDays: 30,
		Enabled:      true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan failed: %v", err)
	}
	now := time.Now()
	sub := &models.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    constants.SubscriptionStatusActive,
		Source:    constants.SubscriptionSourcePurchase,
		StartsAt:  now,
		ExpiresAt: now.Add(30 * 24 * time.Hour),
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed subscription failed: %v", err)
	}
}

func TestTaskCreateEnforcesFreeLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.Premium.FreeTaskLimit = 3
	svc, _ := newTaskTestService(t, cfg)
	userID := uint(1)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(userID, TaskInput{Title: fmt.Sprintf("Tugas %d", i+1)}); err != nil {
			t.Fatalf("create task %d failed: %v", i+1, err)
		}
	}
	if _, err := svc.Create(userID, TaskInput{Title: "Tugas 4"}); !errors.Is(err, ErrTaskLimitReached) {
		t.Fatalf("expected ErrTaskLimitReached, got %v", err)
	}
}

func TestTaskFreeLimitIgnoresCompleted(t *testing.T) {
	cfg := &config.Config{}
	cfg.Premium.FreeTaskLimit = 2
	svc, _ := newTaskTestService(t, cfg)
	userID := uint(1)

	first, err := svc.Create(userID, TaskInput{Title: "Tugas A"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(userID, TaskInput{Title: "Tugas B"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(userID, TaskInput{Title: "Tugas C"}); !errors.Is(err, ErrTaskLimitReached) {
		t.Fatalf("expected limit, got %v", err)
	}

	// 完成一条后额度释放
	if _, err := svc.UpdateStatus(userID, first.ID, constants.TaskStatusCompleted); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if _, err := svc.Create(userID, TaskInput{Title: "Tugas C"}); err != nil {
		t.Fatalf("expected slot after completion, got %v", err)
	}
}

func TestTaskPremiumBypassesLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.Premium.FreeTaskLimit = 1
	svc, db := newTaskTestService(t, cfg)
	userID := uint(7)
	grantTestPremium(t, db, userID)

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(userID, TaskInput{Title: fmt.Sprintf("Premium %d", i+1)}); err != nil {
			t.Fatalf("premium create %d failed: %v", i+1, err)
		}
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	svc, _ := newTaskTestService(t, nil)
	userID := uint(1)

	task, err := svc.Create(userID, TaskInput{Title: "Skripsi"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Status != constants.TaskStatusPending || task.CompletedAt != nil {
		t.Fatalf("unexpected initial state: %s", task.Status)
	}

	task, err = svc.UpdateStatus(userID, task.ID, constants.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}

	// 重开清空完成时间
	task, err = svc.UpdateStatus(userID, task.ID, constants.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if task.CompletedAt != nil {
		t.Fatalf("expected completed_at cleared on reopen")
	}

	if _, err := svc.UpdateStatus(userID, task.ID, "done"); !errors.Is(err, ErrTaskStatusInvalid) {
		t.Fatalf("expected ErrTaskStatusInvalid, got %v", err)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	svc, _ := newTaskTestService(t, nil)

	cases := []struct {
		name      string
		input     TaskInput
		wantError error
	}{
		{"blank title", TaskInput{Title: "   "}, ErrTaskTitleRequired},
		{"bad status", TaskInput{Title: "A", Status: "archived"}, ErrTaskStatusInvalid},
		{"bad priority", TaskInput{Title: "A", Priority: "urgent"}, ErrTaskPriorityInvalid},
	}
	for _, tc := range cases {
		if _, err := svc.Create(1, tc.input); !errors.Is(err, tc.wantError) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantError, err)
		}
	}

	// 默认值
	task, err := svc.Create(1, TaskInput{Title: "Default"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Status != constants.TaskStatusPending || task.Priority != constants.TaskPriorityMedium {
		t.Fatalf("unexpected defaults: %s/%s", task.Status, task.Priority)
	}
}

func TestTaskUpdateClearDueAt(t *testing.T) {
	svc, _ := newTaskTestService(t, nil)
	userID := uint(1)
	due := time.Now().Add(48 * time.Hour)

	task, err := svc.Create(userID, TaskInput{Title: "Deadline", DueAt: &due})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.DueAt == nil {
		t.Fatalf("expected due_at to be set")
	}

	task, err = svc.Update(userID, task.ID, TaskUpdateInput{ClearDueAt: true})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if task.DueAt != nil {
		t.Fatalf("expected due_at cleared")
	}
}

func TestTaskOwnershipScoped(t *testing.T) {
	svc, _ := newTaskTestService(t, nil)

	task, err := svc.Create(1, TaskInput{Title: "Milik user 1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Get(2, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if err := svc.Delete(2, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user delete, got %v", err)
	}
	if err := svc.Delete(1, task.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}
