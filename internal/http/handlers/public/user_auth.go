package public

import (
	"errors"
	"time"

	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/i18n"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	Nickname       string                `json:"nickname"`
	University     string                `json:"university"`
	Major          string                `json:"major"`
	Locale         string                `json:"locale"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserRegister 用户注册，注册成功后下发邮箱验证码
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if !h.verifyCaptchaScene(c, constants.CaptchaSceneRegisterSendCode, req.CaptchaPayload) {
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = i18n.ResolveLocale(c)
	}
	user, sendResult, err := h.UserAuthService.Register(service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.Nickname,
		University:  req.University,
		Major:       req.Major,
		Locale:      locale,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "error.email_exists", nil)
		case errors.Is(err, service.ErrOTPTooFrequent):
			respondError(c, response.CodeTooManyRequests, "error.otp_too_frequent", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondWeakPassword(c, err)
		default:
			respondError(c, response.CodeInternal, "error.register_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":         userSummaryResponse(user),
		"verification": sendCodeResponse(sendResult),
	})
}

// UserResendCodeRequest 重发验证码请求
type UserResendCodeRequest struct {
	Email          string                `json:"email" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserResendVerifyCode 重发注册邮箱验证码
func (h *Handler) UserResendVerifyCode(c *gin.Context) {
	var req UserResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if !h.verifyCaptchaScene(c, constants.CaptchaSceneRegisterSendCode, req.CaptchaPayload) {
		return
	}

	locale := i18n.ResolveLocale(c)
	sendResult, err := h.UserAuthService.ResendVerifyCode(req.Email, locale)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrAlreadyVerified):
			respondError(c, response.CodeBadRequest, "error.already_verified", nil)
		case errors.Is(err, service.ErrOTPTooFrequent):
			respondError(c, response.CodeTooManyRequests, "error.otp_too_frequent", nil)
		case errors.Is(err, service.ErrEmailRecipientRejected):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.send_code_failed", err)
		}
		return
	}

	response.Success(c, sendCodeResponse(sendResult))
}

// UserVerifyEmailRequest 邮箱验证请求
type UserVerifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// UserVerifyEmail 校验邮箱验证码，成功后签发登录态
func (h *Handler) UserVerifyEmail(c *gin.Context) {
	var req UserVerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.VerifyEmail(req.Email, req.Code)
	if err != nil {
		respondOTPVerifyError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":       userSummaryResponse(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	RememberMe     bool                  `json:"remember_me"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if !h.verifyCaptchaScene(c, constants.CaptchaSceneLogin, req.CaptchaPayload) {
		return
	}

	user, token, expiresAt, err := h.UserAuthService.LoginWithRememberMe(req.Email, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.login_invalid", nil)
		case errors.Is(err, service.ErrEmailNotVerified):
			respondError(c, response.CodeUnauthorized, "error.email_not_verified", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeUnauthorized, "error.user_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.login_invalid", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       userSummaryResponse(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// UserLogout 退出登录，清理认证缓存
func (h *Handler) UserLogout(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(id); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"logout": true})
}

// UserForgotPasswordRequest 忘记密码请求
type UserForgotPasswordRequest struct {
	Email          string                `json:"email" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserForgotPassword 发送重置密码验证码
func (h *Handler) UserForgotPassword(c *gin.Context) {
	var req UserForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if !h.verifyCaptchaScene(c, constants.CaptchaSceneResetSendCode, req.CaptchaPayload) {
		return
	}

	locale := i18n.ResolveLocale(c)
	sendResult, err := h.UserAuthService.ForgotPassword(req.Email, locale)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrOTPTooFrequent):
			respondError(c, response.CodeTooManyRequests, "error.otp_too_frequent", nil)
		case errors.Is(err, service.ErrEmailRecipientRejected):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.send_code_failed", err)
		}
		return
	}

	response.Success(c, sendCodeResponse(sendResult))
}

// UserResetPasswordRequest 重置密码请求
type UserResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserResetPassword 凭验证码重置密码
func (h *Handler) UserResetPassword(c *gin.Context) {
	var req UserResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.UserAuthService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			respondWeakPassword(c, err)
		default:
			respondOTPVerifyError(c, err)
		}
		return
	}

	response.Success(c, gin.H{"reset": true})
}

// ChangeUserPasswordRequest 登录态改密请求
type ChangeUserPasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangeUserPassword 用户登录态修改密码
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req ChangeUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "error.password_incorrect", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondWeakPassword(c, err)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}

// GetCurrentUser 获取当前用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}

	response.Success(c, userProfileResponse(user, h.PremiumService.IsPremium(user.ID)))
}

// UserProfileUpdateRequest 更新资料请求
type UserProfileUpdateRequest struct {
	Nickname   *string `json:"nickname"`
	University *string `json:"university"`
	Major      *string `json:"major"`
	Locale     *string `json:"locale"`
	Theme      *string `json:"theme"`
}

// UpdateUserProfile 更新用户资料
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req UserProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(id, service.ProfileUpdateInput{
		DisplayName: req.Nickname,
		University:  req.University,
		Major:       req.Major,
		Locale:      req.Locale,
		Theme:       req.Theme,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileEmpty):
			respondError(c, response.CodeBadRequest, "error.profile_empty", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.user_update_failed", err)
		}
		return
	}

	response.Success(c, userProfileResponse(user, h.PremiumService.IsPremium(user.ID)))
}

// verifyCaptchaScene 按场景校验验证码，未启用场景直接放行。
func (h *Handler) verifyCaptchaScene(c *gin.Context, scene string, payload CaptchaPayloadRequest) bool {
	if h.CaptchaService == nil {
		return true
	}
	if err := h.CaptchaService.Verify(scene, payload.toServicePayload()); err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaRequired):
			respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
		case errors.Is(err, service.ErrCaptchaInvalid):
			respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeInternal, "error.captcha_config_invalid", err)
		default:
			respondError(c, response.CodeInternal, "error.captcha_verify_failed", err)
		}
		return false
	}
	return true
}

func respondOTPVerifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
	case errors.Is(err, service.ErrAlreadyVerified):
		respondError(c, response.CodeBadRequest, "error.already_verified", nil)
	case errors.Is(err, service.ErrOTPNotFound):
		respondError(c, response.CodeBadRequest, "error.otp_not_found", nil)
	case errors.Is(err, service.ErrOTPInvalid):
		respondError(c, response.CodeBadRequest, "error.otp_invalid", nil)
	case errors.Is(err, service.ErrOTPExpired):
		respondError(c, response.CodeBadRequest, "error.otp_expired", nil)
	case errors.Is(err, service.ErrOTPAttemptsExceeded):
		respondError(c, response.CodeBadRequest, "error.otp_attempts_exceeded", nil)
	default:
		respondError(c, response.CodeInternal, "error.verify_failed", err)
	}
}

func respondWeakPassword(c *gin.Context, err error) {
	locale := i18n.ResolveLocale(c)
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		msg := i18n.Sprintf(locale, perr.Key(), perr.Args()...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
}

// sendCodeResponse 构造验证码下发结果
// 降级投递时验证码原样返回，便于邮件服务不可用时继续完成验证。
func sendCodeResponse(result *service.SendCodeResult) gin.H {
	if result == nil {
		return gin.H{"delivery": service.DeliveryEmail}
	}
	data := gin.H{
		"delivery":   result.Delivery,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
	}
	if result.Delivery == service.DeliveryFallback {
		data["code"] = result.FallbackCode
	}
	return data
}

func userSummaryResponse(user *models.User) gin.H {
	return gin.H{
		"id":                user.ID,
		"email":             user.Email,
		"nickname":          user.DisplayName,
		"email_verified_at": user.EmailVerifiedAt,
	}
}

func userProfileResponse(user *models.User, isPremium bool) gin.H {
	return gin.H{
		"id":                user.ID,
		"email":             user.Email,
		"nickname":          user.DisplayName,
		"university":        user.University,
		"major":             user.Major,
		"locale":            user.Locale,
		"theme":             user.Theme,
		"email_verified_at": user.EmailVerifiedAt,
		"is_premium":        isPremium,
		"created_at":        user.CreatedAt,
	}
}
