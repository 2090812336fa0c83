package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/studizen-api/internal/cache"
	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/i18n"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// 验证码投递方式
const (
	DeliveryEmail    = "email"
	DeliveryFallback = "fallback"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	otpService   *OTPService
	emailService *EmailService
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, otpService *OTPService, emailService *EmailService) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		otpService:   otpService,
		emailService: emailService,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput 注册请求参数
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	University  string
	Major       string
	Locale      string
}

// SendCodeResult 验证码投递结果
//
// 邮件发送失败时降级为 fallback：验证码原样返回给调用方，
// 注册/重置流程不因 SMTP 故障中断。
type SendCodeResult struct {
	Delivery     string
	FallbackCode string
	ExpiresAt    time.Time
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	expiresAt := time.Now().Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Register 用户注册：创建未验证账号并签发验证码
func (s *UserAuthService) Register(input RegisterInput) (*models.User, *SendCodeResult, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if exist != nil {
		return nil, nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = resolveNicknameFromEmail(normalized)
	}
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		DisplayName:  displayName,
		University:   strings.TrimSpace(input.University),
		Major:        strings.TrimSpace(input.Major),
		Locale:       i18n.Normalize(input.Locale),
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	result, err := s.issueAndDispatch(user, constants.OTPPurposeRegister, user.Locale)
	if err != nil {
		return nil, nil, err
	}
	return user, result, nil
}

// ResendVerifyCode 重发注册验证码（旧码签发时即作废）
func (s *UserAuthService) ResendVerifyCode(email, locale string) (*SendCodeResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.EmailVerifiedAt != nil {
		return nil, ErrAlreadyVerified
	}
	if strings.TrimSpace(user.Locale) != "" {
		locale = user.Locale
	}
	return s.issueAndDispatch(user, constants.OTPPurposeRegister, locale)
}

// VerifyEmail 消费验证码并标记邮箱已验证，成功后直接下发登录态
func (s *UserAuthService) VerifyEmail(email, code string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrNotFound
	}
	if user.EmailVerifiedAt != nil {
		return nil, "", time.Time{}, ErrAlreadyVerified
	}

	if _, err := s.otpService.Verify(normalized, code); err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.EmailVerifiedAt = &now
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	return s.LoginWithRememberMe(email, password, false)
}

// LoginWithRememberMe 用户登录（支持记住我）
func (s *UserAuthService) LoginWithRememberMe(email, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if user.EmailVerifiedAt == nil {
		return nil, "", time.Time{}, ErrEmailNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Logout 注销当前会话之外的服务端状态（仅清缓存，JWT 本身到期自然失效）
func (s *UserAuthService) Logout(userID uint) error {
	if userID == 0 {
		return nil
	}
	return cache.DelUserAuthState(context.Background(), userID)
}

// ForgotPassword 发送密码重置验证码
func (s *UserAuthService) ForgotPassword(email, locale string) (*SendCodeResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(user.Locale) != "" {
		locale = user.Locale
	}
	return s.issueAndDispatch(user, constants.OTPPurposeReset, locale)
}

// ResetPassword 重置密码
func (s *UserAuthService) ResetPassword(email, code, newPassword string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if _, err := s.otpService.Verify(normalized, code); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	now := time.Now()
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// ChangePassword 登录态修改密码
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if userID == 0 {
		return ErrNotFound
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	now := time.Now()
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// ProfileUpdateInput 资料更新参数，nil 字段表示不修改
type ProfileUpdateInput struct {
	DisplayName *string
	University  *string
	Major       *string
	Locale      *string
	Theme       *string
}

// UpdateProfile 更新用户资料
func (s *UserAuthService) UpdateProfile(userID uint, input ProfileUpdateInput) (*models.User, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	updated := false
	if input.DisplayName != nil {
		trimmed := strings.TrimSpace(*input.DisplayName)
		if trimmed != "" {
			user.DisplayName = trimmed
			updated = true
		}
	}
	if input.University != nil {
		user.University = strings.TrimSpace(*input.University)
		updated = true
	}
	if input.Major != nil {
		user.Major = strings.TrimSpace(*input.Major)
		updated = true
	}
	if input.Locale != nil {
		trimmed := strings.TrimSpace(*input.Locale)
		if trimmed != "" {
			user.Locale = i18n.Normalize(trimmed)
			updated = true
		}
	}
	if input.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*input.Theme))
		if theme == constants.ThemeLight || theme == constants.ThemeDark {
			user.Theme = theme
			updated = true
		}
	}

	if !updated {
		return nil, ErrProfileEmpty
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

// issueAndDispatch 先签发落库，再尝试邮件投递；投递失败不阻断流程
func (s *UserAuthService) issueAndDispatch(user *models.User, purpose, locale string) (*SendCodeResult, error) {
	userID := user.ID
	issued, err := s.otpService.Issue(user.Email, &userID)
	if err != nil {
		return nil, err
	}

	result := &SendCodeResult{
		Delivery:  DeliveryEmail,
		ExpiresAt: issued.Record.ExpiresAt,
	}
	if s.emailService == nil {
		result.Delivery = DeliveryFallback
		result.FallbackCode = issued.Code
		return result, nil
	}
	if err := s.emailService.SendOTPEmail(user.Email, user.DisplayName, issued.Code, purpose, locale); err != nil {
		logger.Warnw("otp_email_dispatch_failed_fallback",
			"email", user.Email,
			"purpose", purpose,
			"error", err,
		)
		result.Delivery = DeliveryFallback
		result.FallbackCode = issued.Code
	}
	return result, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}

func resolveNicknameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
