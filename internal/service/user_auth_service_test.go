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
	"gorm.io/gorm"
)

func newUserAuthTestService(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.OTPCode{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "unit-test-user-jwt-secret"
	cfg.Email.OTP = config.OTPConfig{ExpireMinutes: 10, SendIntervalSeconds: 60, MaxAttempts: 5}

	userRepo := repository.NewUserRepository(db)
	otpService := NewOTPService(cfg, repository.NewOTPCodeRepository(db))
	// 禁用的邮件服务，走降级投递
	emailService := NewEmailService(&config.EmailConfig{Enabled: false})
	return NewUserAuthService(cfg, userRepo, otpService, emailService), db
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	svc, _ := newUserAuthTestService(t)

	user, sent, err := svc.Register(RegisterInput{
		Email:    "Budi@Example.COM",
		Password: "rahasia123",
		Locale:   "id-ID",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "budi@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.EmailVerifiedAt != nil {
		t.Fatalf("expected unverified account after register")
	}
	if sent.Delivery != DeliveryFallback || len(sent.FallbackCode) != 4 {
		t.Fatalf("expected fallback delivery with code, got %s/%q", sent.Delivery, sent.FallbackCode)
	}

	// 未验证前不能登录
	if _, _, _, err := svc.Login("budi@example.com", "rahasia123"); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	verified, token, expiresAt, err := svc.VerifyEmail("budi@example.com", sent.FallbackCode)
	if err != nil {
		t.Fatalf("verify email failed: %v", err)
	}
	if verified.EmailVerifiedAt == nil || token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected verified account with session")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse issued token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token user mismatch: %d != %d", claims.UserID, user.ID)
	}

	if _, _, _, err := svc.Login("budi@example.com", "rahasia123"); err != nil {
		t.Fatalf("login after verify failed: %v", err)
	}
	if _, _, _, err := svc.Login("budi@example.com", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// 验证码单次消费，重复验证报已验证
	if _, _, _, err := svc.VerifyEmail("budi@example.com", sent.FallbackCode); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserAuthTestService(t)

	if _, _, err := svc.Register(RegisterInput{Email: "dup@example.com", Password: "rahasia123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Register(RegisterInput{Email: "DUP@example.com", Password: "rahasia123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "rahasia123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestResendSupersedesOldCode(t *testing.T) {
	svc, db := newUserAuthTestService(t)

	_, first, err := svc.Register(RegisterInput{Email: "resend@example.com", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	backdateSentAt(t, db, latestOTPID(t, db, "resend@example.com"), 2*time.Minute)

	second, err := svc.ResendVerifyCode("resend@example.com", "id-ID")
	if err != nil {
		t.Fatalf("resend failed: %v", err)
	}

	if first.FallbackCode != second.FallbackCode {
		if _, _, _, err := svc.VerifyEmail("resend@example.com", first.FallbackCode); err == nil {
			t.Fatalf("expected superseded code to be rejected")
		}
	}
	if _, _, _, err := svc.VerifyEmail("resend@example.com", second.FallbackCode); err != nil {
		t.Fatalf("expected latest code to verify, got %v", err)
	}
}

func latestOTPID(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()
	var record models.OTPCode
	if err := db.Where("email = ?", email).Order("id desc").First(&record).Error; err != nil {
		t.Fatalf("load otp record failed: %v", err)
	}
	return record.ID
}

func TestForgotResetPasswordFlow(t *testing.T) {
	svc, db := newUserAuthTestService(t)

	_, sent, err := svc.Register(RegisterInput{Email: "reset@example.com", Password: "lama12345"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.VerifyEmail("reset@example.com", sent.FallbackCode); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	backdateSentAt(t, db, latestOTPID(t, db, "reset@example.com"), 2*time.Minute)
	resetSent, err := svc.ForgotPassword("reset@example.com", "id-ID")
	if err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}

	if err := svc.ResetPassword("reset@example.com", resetSent.FallbackCode, "baru12345"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}

	if _, _, _, err := svc.Login("reset@example.com", "lama12345"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	user, _, _, err := svc.Login("reset@example.com", "baru12345")
	if err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	// 重置密码使既有会话失效
	if user.TokenVersion != 1 || user.TokenInvalidBefore == nil {
		t.Fatalf("expected token revocation markers after reset")
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _ := newUserAuthTestService(t)
	if _, err := svc.ForgotPassword("ghost@example.com", "id-ID"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	svc, _ := newUserAuthTestService(t)

	user, sent, err := svc.Register(RegisterInput{Email: "change@example.com", Password: "lama12345"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.VerifyEmail("change@example.com", sent.FallbackCode); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "salah", "baru12345"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "lama12345", "baru12345"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("change@example.com", "baru12345"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := newUserAuthTestService(t)

	user, sent, err := svc.Register(RegisterInput{Email: "blocked@example.com", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.VerifyEmail("blocked@example.com", sent.FallbackCode); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, _, _, err := svc.Login("blocked@example.com", "rahasia123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserAuthTestService(t)

	user, _, err := svc.Register(RegisterInput{Email: "profile@example.com", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.UpdateProfile(user.ID, ProfileUpdateInput{}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}

	name := "Budi Santoso"
	locale := "zh"
	theme := "dark"
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdateInput{DisplayName: &name, Locale: &locale, Theme: &theme})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != name {
		t.Fatalf("display name not applied: %q", updated.DisplayName)
	}
	if updated.Locale != "zh-CN" {
		t.Fatalf("expected locale normalized to zh-CN, got %q", updated.Locale)
	}
	if updated.Theme != "dark" {
		t.Fatalf("theme not applied: %q", updated.Theme)
	}
}
