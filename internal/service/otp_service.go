package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"
)

// OTPService 邮箱验证码（OTP）管理服务
//
// 核心约束：
//   - 同一邮箱任意时刻至多一条有效码，签发新码前旧码全部作废
//   - 每条码只能消费一次，校验成功即作废
//   - 错误尝试累计到上限后该码不再可用
type OTPService struct {
	cfg      *config.Config
	codeRepo repository.OTPCodeRepository
}

// NewOTPService 创建 OTP 服务
func NewOTPService(cfg *config.Config, codeRepo repository.OTPCodeRepository) *OTPService {
	return &OTPService{cfg: cfg, codeRepo: codeRepo}
}

// IssueResult 签发结果
type IssueResult struct {
	Record     *models.OTPCode
	Code       string
	Superseded int64
}

// Issue 为邮箱签发新验证码
//
// 先作废该邮箱全部未消费记录再落新码，保证唯一有效码约束在
// 写入时刻即成立，而不是依赖校验时挑最新一条。
func (s *OTPService) Issue(email string, userID *uint) (*IssueResult, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, ErrInvalidEmail
	}

	now := time.Now()
	latest, err := s.codeRepo.GetLatestByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		interval := time.Duration(resolveSendIntervalSeconds(s.cfg.Email.OTP)) * time.Second
		if !latest.SentAt.IsZero() && now.Sub(latest.SentAt) < interval {
			return nil, ErrOTPTooFrequent
		}
	}

	code, err := randomOTPCode()
	if err != nil {
		return nil, err
	}

	superseded, err := s.codeRepo.SupersedeUnusedByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if superseded > 0 {
		logger.Infow("otp_superseded_on_issue", "email", normalized, "count", superseded)
	}

	record := &models.OTPCode{
		Email:     normalized,
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(time.Duration(resolveExpireMinutes(s.cfg.Email.OTP)) * time.Minute),
		SentAt:    now,
		CreatedAt: now,
	}
	if err := s.codeRepo.Create(record); err != nil {
		return nil, err
	}

	return &IssueResult{Record: record, Code: code, Superseded: superseded}, nil
}

// Verify 校验并消费验证码
//
// 匹配取最新一条未消费记录；码值不匹配时对当前有效码累计错误次数。
// 过期记录保持未消费状态，便于审计区分“过期未用”和“已消费”。
func (s *OTPService) Verify(email, code string) (*models.OTPCode, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	trimmedCode := strings.TrimSpace(code)
	if normalized == "" || trimmedCode == "" {
		return nil, ErrOTPInvalid
	}

	maxAttempts := resolveMaxAttempts(s.cfg.Email.OTP)
	now := time.Now()

	matches, err := s.codeRepo.ListUnusedByEmailAndCode(normalized, trimmedCode)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		latest, err := s.codeRepo.GetLatestUnusedByEmail(normalized)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, ErrOTPNotFound
		}
		if maxAttempts > 0 && latest.AttemptCount >= maxAttempts {
			return nil, ErrOTPAttemptsExceeded
		}
		if err := s.codeRepo.IncrementAttempt(latest.ID); err != nil {
			return nil, err
		}
		return nil, ErrOTPInvalid
	}

	record := &matches[0]
	if maxAttempts > 0 && record.AttemptCount >= maxAttempts {
		return nil, ErrOTPAttemptsExceeded
	}
	if otpExpired(record.ExpiresAt, now) {
		return nil, ErrOTPExpired
	}

	if err := s.codeRepo.MarkUsed(record.ID, now); err != nil {
		return nil, err
	}
	// 历史上残留的同码旧记录一并作废（正常路径下签发时已清空）
	if len(matches) > 1 {
		stale := make([]uint, 0, len(matches)-1)
		for _, m := range matches[1:] {
			stale = append(stale, m.ID)
		}
		if err := s.codeRepo.MarkSuperseded(stale); err != nil {
			logger.Warnw("otp_stale_supersede_failed", "email", normalized, "error", err)
		}
	}

	verifiedAt := now
	record.IsUsed = true
	record.VerifiedAt = &verifiedAt
	return record, nil
}

// RemainingValidity 返回该邮箱当前有效码的剩余有效时长，无有效码时返回 0
func (s *OTPService) RemainingValidity(email string) (time.Duration, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return 0, ErrInvalidEmail
	}
	latest, err := s.codeRepo.GetLatestUnusedByEmail(normalized)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	remain := time.Until(latest.ExpiresAt)
	if remain < 0 {
		return 0, nil
	}
	return remain, nil
}

// otpExpired 过期边界按闭区间处理：恰好到期时刻仍然有效
func otpExpired(expiresAt, now time.Time) bool {
	return now.After(expiresAt)
}

// randomOTPCode 生成 [1000, 9999] 均匀分布的四位数字码
func randomOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}

func resolveExpireMinutes(cfg config.OTPConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 10
	}
	return cfg.ExpireMinutes
}

func resolveSendIntervalSeconds(cfg config.OTPConfig) int {
	if cfg.SendIntervalSeconds <= 0 {
		return 60
	}
	return cfg.SendIntervalSeconds
}

func resolveMaxAttempts(cfg config.OTPConfig) int {
	if cfg.MaxAttempts <= 0 {
		return 5
	}
	return cfg.MaxAttempts
}
