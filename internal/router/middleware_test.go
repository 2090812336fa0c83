package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"
	"github.com/studizen-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func newUserAuthTestServer(t *testing.T) (*gin.Engine, *service.UserAuthService, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.OTPCode{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "middleware-test-secret"
	userRepo := repository.NewUserRepository(db)
	authService := service.NewUserAuthService(cfg, userRepo,
		service.NewOTPService(cfg, repository.NewOTPCodeRepository(db)), nil)

	r := gin.New()
	r.GET("/me", UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, userRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	return r, authService, db
}

func seedVerifiedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	now := time.Now()
	user := &models.User{
		Email:           email,
		PasswordHash:    string(hash),
		DisplayName:     "Budi",
		Status:          constants.UserStatusActive,
		Locale:          "id-ID",
		EmailVerifiedAt: &now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	r, authService, db := newUserAuthTestServer(t)
	user := seedVerifiedUser(t, db, "mw@example.com")

	token, _, err := authService.GenerateUserJWT(user, 0)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	do := func(authorization string) (int, int) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		r.ServeHTTP(w, req)
		var resp struct {
			StatusCode int  `json:"status_code"`
			UserID     uint `json:"user_id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		return resp.StatusCode, int(resp.UserID)
	}

	if code, _ := do(""); code != 401 {
		t.Fatalf("missing header want 401 got %d", code)
	}
	if code, _ := do("Token " + token); code != 401 {
		t.Fatalf("non-bearer scheme want 401 got %d", code)
	}
	if code, _ := do("Bearer invalid.token.here"); code != 401 {
		t.Fatalf("malformed token want 401 got %d", code)
	}
	if _, userID := do("Bearer " + token); userID != int(user.ID) {
		t.Fatalf("valid token want user %d got %d", user.ID, userID)
	}
}

func TestUserJWTAuthMiddlewareRevokedToken(t *testing.T) {
	r, authService, db := newUserAuthTestServer(t)
	user := seedVerifiedUser(t, db, "revoked@example.com")

	token, _, err := authService.GenerateUserJWT(user, 0)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	// 旧 token 版本在修改密码后失效
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("token_version", user.TokenVersion+1).Error; err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("revoked token want 401 got %d", resp.StatusCode)
	}
}

func TestUserJWTAuthMiddlewareDisabledUser(t *testing.T) {
	r, authService, db := newUserAuthTestServer(t)
	user := seedVerifiedUser(t, db, "disabled@example.com")

	token, _, err := authService.GenerateUserJWT(user, 0)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("disabled user want 401 got %d", resp.StatusCode)
	}
}

func TestIsIssuedAfterInvalidBefore(t *testing.T) {
	now := time.Now()
	past := jwt.NewNumericDate(now.Add(-time.Hour))
	fresh := jwt.NewNumericDate(now.Add(time.Minute))

	if !isIssuedAfterInvalidBefore(nil, nil) {
		t.Fatalf("no revocation marker should pass")
	}
	if isIssuedAfterInvalidBefore(nil, &now) {
		t.Fatalf("missing issued-at with marker should fail")
	}
	if isIssuedAfterInvalidBefore(past, &now) {
		t.Fatalf("token issued before marker should fail")
	}
	if !isIssuedAfterInvalidBefore(fresh, &now) {
		t.Fatalf("token issued after marker should pass")
	}

	if !isIssuedAfterInvalidBeforeUnix(nil, 0) {
		t.Fatalf("zero marker should pass")
	}
	if isIssuedAfterInvalidBeforeUnix(nil, now.Unix()) {
		t.Fatalf("missing issued-at with unix marker should fail")
	}
	if isIssuedAfterInvalidBeforeUnix(past, now.Unix()) {
		t.Fatalf("stale issued-at with unix marker should fail")
	}
	if !isIssuedAfterInvalidBeforeUnix(fresh, now.Unix()) {
		t.Fatalf("fresh issued-at with unix marker should pass")
	}
}
