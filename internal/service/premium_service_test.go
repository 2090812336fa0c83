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

func newPremiumTestService(t *testing.T, cfg *config.Config) (*PremiumService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.SubscriptionPlan{}, &models.Subscription{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	svc := NewPremiumService(cfg,
		repository.NewSubscriptionPlanRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	return svc, db
}

func seedPremiumPlan(t *testing.T, db *gorm.DB, slug string, durationDays int, enabled bool) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{
		Slug:         slug,
		NameJSON:     models.JSON(map[string]interface{}{"en-US": slug}),
		Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(29000)),
		Currency:     "IDR",
		DurationDays: durationDays,
		Enabled:      enabled,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan failed: %v", err)
	}
	return plan
}

func seedPremiumUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestSubscribeActivatesPremium(t *testing.T) {
	svc, db := newPremiumTestService(t, nil)
	plan := seedPremiumPlan(t, db, "monthly", 30, true)
	user := seedPremiumUser(t, db, "sub@example.com")

	if svc.IsPremium(user.ID) {
		t.Fatalf("expected non-premium before subscribe")
	}

	sub, err := svc.Subscribe(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if sub.Status != constants.SubscriptionStatusActive || sub.Source != constants.SubscriptionSourcePurchase {
		t.Fatalf("unexpected subscription state: %s/%s", sub.Status, sub.Source)
	}
	if !svc.IsPremium(user.ID) {
		t.Fatalf("expected premium after subscribe")
	}
}

func TestSubscribeRenewalExtendsFromCurrentExpiry(t *testing.T) {
	svc, db := newPremiumTestService(t, nil)
	plan := seedPremiumPlan(t, db, "monthly", 30, true)
	user := seedPremiumUser(t, db, "renew@example.com")

	first, err := svc.Subscribe(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("first subscribe failed: %v", err)
	}
	second, err := svc.Subscribe(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("renewal failed: %v", err)
	}

	if !second.StartsAt.Equal(first.ExpiresAt) {
		t.Fatalf("expected renewal to start at current expiry, got start=%v expiry=%v", second.StartsAt, first.ExpiresAt)
	}
	wantExpiry := first.ExpiresAt.Add(30 * 24 * time.Hour)
	if !second.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected stacked expiry %v, got %v", wantExpiry, second.ExpiresAt)
	}
}

func TestSubscribeRejectsDisabledPlan(t *testing.T) {
	svc, db := newPremiumTestService(t, nil)
	plan := seedPremiumPlan(t, db, "legacy", 30, false)
	user := seedPremiumUser(t, db, "disabled@example.com")

	if _, err := svc.Subscribe(user.ID, plan.ID); !errors.Is(err, ErrPlanDisabled) {
		t.Fatalf("expected ErrPlanDisabled, got %v", err)
	}
	if _, err := svc.Subscribe(user.ID, plan.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing plan, got %v", err)
	}
}

func TestStartTrialOnlyOnce(t *testing.T) {
	cfg := &config.Config{}
	cfg.Premium.TrialDurationDays = 7
	svc, db := newPremiumTestService(t, cfg)
	seedPremiumPlan(t, db, "monthly", 30, true)
	user := seedPremiumUser(t, db, "trial@example.com")

	sub, err := svc.StartTrial(user.ID)
	if err != nil {
		t.Fatalf("start trial failed: %v", err)
	}
	if sub.Source != constants.SubscriptionSourceTrial {
		t.Fatalf("expected trial source, got %s", sub.Source)
	}
	wantExpiry := sub.StartsAt.Add(7 * 24 * time.Hour)
	if !sub.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected 7-day trial, got expiry %v", sub.ExpiresAt)
	}

	if _, err := svc.StartTrial(user.ID); !errors.Is(err, ErrTrialAlreadyUsed) {
		t.Fatalf("expected ErrTrialAlreadyUsed, got %v", err)
	}
}

func TestCancelRevokesPremiumImmediately(t *testing.T) {
	svc, db := newPremiumTestService(t, nil)
	plan := seedPremiumPlan(t, db, "monthly", 30, true)
	user := seedPremiumUser(t, db, "cancel@example.com")
	other := seedPremiumUser(t, db, "other@example.com")

	sub, err := svc.Subscribe(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := svc.Cancel(other.ID, sub.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := svc.Cancel(user.ID, sub.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if svc.IsPremium(user.ID) {
		t.Fatalf("expected non-premium after cancel")
	}
	// 已取消的订阅不能重复取消
	if err := svc.Cancel(user.ID, sub.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double cancel, got %v", err)
	}
}

func TestExpireSubscriptionSkipsRenewedPeriod(t *testing.T) {
	svc, db := newPremiumTestService(t, nil)
	plan := seedPremiumPlan(t, db, "monthly", 30, true)
	user := seedPremiumUser(t, db, "expire@example.com")

	sub, err := svc.Subscribe(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// 期内到期任务不应改变状态
	if err := svc.ExpireSubscription(sub.ID); err != nil {
		t.Fatalf("expire in-period failed: %v", err)
	}
	if !svc.IsPremium(user.ID) {
		t.Fatalf("expected premium to survive in-period expire attempt")
	}

	// 回拨到期时间后过期生效
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Subscription{}).Where("id = ?", sub.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}
	if err := svc.ExpireSubscription(sub.ID); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if svc.IsPremium(user.ID) {
		t.Fatalf("expected non-premium after expire")
	}
	// 不存在的订阅静默跳过
	if err := svc.ExpireSubscription(sub.ID + 99); err != nil {
		t.Fatalf("expected missing subscription to be a no-op, got %v", err)
	}
}

func TestExpireOverdueSweep(t *testing.T) {
	svc, db := newPremiumTestService(t, nil)
	plan := seedPremiumPlan(t, db, "monthly", 30, true)
	alice := seedPremiumUser(t, db, "alice@example.com")
	bob := seedPremiumUser(t, db, "bob@example.com")

	subA, err := svc.Subscribe(alice.ID, plan.ID)
	if err != nil {
		t.Fatalf("subscribe alice failed: %v", err)
	}
	if _, err := svc.Subscribe(bob.ID, plan.ID); err != nil {
		t.Fatalf("subscribe bob failed: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Subscription{}).Where("id = ?", subA.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	affected, err := svc.ExpireOverdue()
	if err != nil {
		t.Fatalf("expire overdue failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 expired subscription, got %d", affected)
	}
	if svc.IsPremium(alice.ID) {
		t.Fatalf("expected alice to lose premium")
	}
	if !svc.IsPremium(bob.ID) {
		t.Fatalf("expected bob to keep premium")
	}
}
