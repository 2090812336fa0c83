package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newOTPTestService(t *testing.T, otpCfg config.OTPConfig) (*OTPService, repository.OTPCodeRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.OTPCode{}); err != nil {
		t.Fatalf("auto migrate otp codes failed: %v", err)
	}
	repo := repository.NewOTPCodeRepository(db)
	cfg := &config.Config{}
	cfg.Email.OTP = otpCfg
	return NewOTPService(cfg, repo), repo, db
}

func backdateSentAt(t *testing.T, db *gorm.DB, id uint, d time.Duration) {
	t.Helper()
	if err := db.Model(&models.OTPCode{}).
		Where("id = ?", id).
		Update("sent_at", time.Now().Add(-d)).Error; err != nil {
		t.Fatalf("backdate sent_at failed: %v", err)
	}
}

func TestIssueSupersedesPreviousCodes(t *testing.T) {
	svc, repo, db := newOTPTestService(t, config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 5})
	email := "mahasiswa@example.com"

	first, err := svc.Issue(email, nil)
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	backdateSentAt(t, db, first.Record.ID, 2*time.Minute)

	second, err := svc.Issue(email, nil)
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}
	if second.Superseded != 1 {
		t.Fatalf("expected 1 superseded record, got %d", second.Superseded)
	}

	count, err := repo.CountUnusedByEmail(email)
	if err != nil {
		t.Fatalf("count unused failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one live code, got %d", count)
	}

	// 旧码被作废后不能再校验通过
	if _, err := svc.Verify(email, first.Code); err == nil {
		t.Fatalf("expected superseded code to be rejected")
	}
	if _, err := svc.Verify(email, second.Code); err != nil {
		t.Fatalf("expected latest code to verify, got %v", err)
	}
}

func TestVerifyConsumesCodeOnce(t *testing.T) {
	svc, repo, _ := newOTPTestService(t, config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 5})
	email := "once@example.com"

	issued, err := svc.Issue(email, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	record, err := svc.Verify(email, issued.Code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !record.IsUsed || record.VerifiedAt == nil {
		t.Fatalf("expected verified record to be consumed")
	}

	if _, err := svc.Verify(email, issued.Code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expected ErrOTPNotFound on reuse, got %v", err)
	}

	count, err := repo.CountUnusedByEmail(email)
	if err != nil {
		t.Fatalf("count unused failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no live codes after consume, got %d", count)
	}
}

func TestVerifyExpiredCodeStaysUnused(t *testing.T) {
	svc, repo, _ := newOTPTestService(t, config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 5})
	email := "expired@example.com"

	now := time.Now()
	record := &models.OTPCode{
		Email:     email,
		Code:      "4321",
		ExpiresAt: now.Add(-time.Second),
		SentAt:    now.Add(-11 * time.Minute),
		CreatedAt: now.Add(-11 * time.Minute),
	}
	if err := repo.Create(record); err != nil {
		t.Fatalf("create expired record failed: %v", err)
	}

	if _, err := svc.Verify(email, "4321"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}

	// 过期码保持未消费状态，便于审计区分
	count, err := repo.CountUnusedByEmail(email)
	if err != nil {
		t.Fatalf("count unused failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected expired record to stay unused, got %d live", count)
	}
}

func TestOTPExpiryBoundaryInclusive(t *testing.T) {
	expiresAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before expiry", expiresAt.Add(-time.Minute), false},
		{"exactly at expiry", expiresAt, false},
		{"one nanosecond after", expiresAt.Add(time.Nanosecond), true},
		{"well after expiry", expiresAt.Add(time.Minute), true},
	}
	for _, tc := range cases {
		if got := otpExpired(expiresAt, tc.now); got != tc.want {
			t.Fatalf("%s: otpExpired=%v want %v", tc.name, got, tc.want)
		}
	}
}

func TestVerifyWrongCodeAttemptCeiling(t *testing.T) {
	svc, _, _ := newOTPTestService(t, config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 3})
	email := "attempts@example.com"

	issued, err := svc.Issue(email, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	wrong := "0000"
	if wrong == issued.Code {
		wrong = "0001"
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Verify(email, wrong); !errors.Is(err, ErrOTPInvalid) {
			t.Fatalf("attempt %d: expected ErrOTPInvalid, got %v", i+1, err)
		}
	}
	if _, err := svc.Verify(email, wrong); !errors.Is(err, ErrOTPAttemptsExceeded) {
		t.Fatalf("expected ErrOTPAttemptsExceeded after ceiling, got %v", err)
	}

	// 达到上限后正确码也不再可用
	if _, err := svc.Verify(email, issued.Code); !errors.Is(err, ErrOTPAttemptsExceeded) {
		t.Fatalf("expected correct code to be blocked after ceiling, got %v", err)
	}
}

func TestIssueRejectsTooFrequentResend(t *testing.T) {
	svc, _, _ := newOTPTestService(t, config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 5})
	email := "frequent@example.com"

	if _, err := svc.Issue(email, nil); err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	if _, err := svc.Issue(email, nil); !errors.Is(err, ErrOTPTooFrequent) {
		t.Fatalf("expected ErrOTPTooFrequent, got %v", err)
	}
}

func TestVerifyHealsStaleDuplicates(t *testing.T) {
	svc, repo, _ := newOTPTestService(t, config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 5})
	email := "stale@example.com"
	now := time.Now()

	older := &models.OTPCode{
		Email:     email,
		Code:      "5678",
		ExpiresAt: now.Add(10 * time.Minute),
		SentAt:    now.Add(-5 * time.Minute),
		CreatedAt: now.Add(-5 * time.Minute),
	}
	newer := &models.OTPCode{
		Email:     email,
		Code:      "5678",
		ExpiresAt: now.Add(10 * time.Minute),
		SentAt:    now,
		CreatedAt: now,
	}
	if err := repo.Create(older); err != nil {
		t.Fatalf("create older record failed: %v", err)
	}
	if err := repo.Create(newer); err != nil {
		t.Fatalf("create newer record failed: %v", err)
	}

	record, err := svc.Verify(email, "5678")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if record.ID != newer.ID {
		t.Fatalf("expected newest record to win, got id=%d", record.ID)
	}

	count, err := repo.CountUnusedByEmail(email)
	if err != nil {
		t.Fatalf("count unused failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected stale duplicates to be cleared, got %d live", count)
	}
}

func TestRandomOTPCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := randomOTPCode()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4-digit code, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code is not numeric: %q", code)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}

func TestRemainingValidity(t *testing.T) {
	svc, _, _ := newOTPTestService(t, config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 5})
	email := "validity@example.com"

	remain, err := svc.RemainingValidity(email)
	if err != nil {
		t.Fatalf("remaining validity failed: %v", err)
	}
	if remain != 0 {
		t.Fatalf("expected zero validity before issue, got %v", remain)
	}

	if _, err := svc.Issue(email, nil); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	remain, err = svc.RemainingValidity(email)
	if err != nil {
		t.Fatalf("remaining validity failed: %v", err)
	}
	if remain <= 9*time.Minute || remain > 10*time.Minute {
		t.Fatalf("expected validity close to 10m, got %v", remain)
	}
}
