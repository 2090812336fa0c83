package service

import (
	"context"
	"time"

	"github.com/studizen-api/internal/cache"
	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/queue"
	"github.com/studizen-api/internal/repository"
)

// PremiumService 会员订阅业务服务
type PremiumService struct {
	cfg         *config.Config
	planRepo    repository.SubscriptionPlanRepository
	subRepo     repository.SubscriptionRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewPremiumService 创建会员服务
func NewPremiumService(cfg *config.Config, planRepo repository.SubscriptionPlanRepository, subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, queueClient *queue.Client) *PremiumService {
	return &PremiumService{
		cfg:         cfg,
		planRepo:    planRepo,
		subRepo:     subRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// ListPlans 可售套餐列表
func (s *PremiumService) ListPlans() ([]models.SubscriptionPlan, error) {
	plans, _, err := s.planRepo.List(repository.PlanListFilter{EnabledOnly: true})
	return plans, err
}

// GetPlan 获取套餐
func (s *PremiumService) GetPlan(id uint) (*models.SubscriptionPlan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	return plan, nil
}

// Subscribe 开通或续订套餐
//
// 续订在现有到期时间上顺延，新订从当前时刻起算。
func (s *PremiumService) Subscribe(userID, planID uint) (*models.Subscription, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if !plan.Enabled {
		return nil, ErrPlanDisabled
	}
	if plan.DurationDays <= 0 {
		return nil, ErrPlanDisabled
	}
	return s.activate(userID, plan, plan.DurationDays, constants.SubscriptionSourcePurchase)
}

// StartTrial 领取免费试用（每个账号一次）
func (s *PremiumService) StartTrial(userID uint) (*models.Subscription, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.TrialUsedAt != nil {
		return nil, ErrTrialAlreadyUsed
	}

	plans, _, err := s.planRepo.List(repository.PlanListFilter{EnabledOnly: true})
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ErrPlanDisabled
	}
	plan := &plans[0]

	days := s.cfg.Premium.TrialDurationDays
	if days <= 0 {
		days = 7
	}
	sub, err := s.activate(userID, plan, days, constants.SubscriptionSourceTrial)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.TrialUsedAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return sub, nil
}

// Grant 管理端赠送会员
func (s *PremiumService) Grant(userID, planID uint, days int) (*models.Subscription, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = plan.DurationDays
	}
	if days <= 0 {
		return nil, ErrPlanDisabled
	}
	return s.activate(userID, plan, days, constants.SubscriptionSourceAdmin)
}

// Cancel 取消订阅（立即失去会员）
func (s *PremiumService) Cancel(userID, subscriptionID uint) error {
	sub, err := s.subRepo.GetByID(subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil || sub.UserID != userID {
		return ErrNotFound
	}
	if sub.Status != constants.SubscriptionStatusActive {
		return ErrNotFound
	}

	now := time.Now()
	sub.Status = constants.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	sub.UpdatedAt = now
	if err := s.subRepo.Update(sub); err != nil {
		return err
	}
	_ = cache.DelPremiumState(context.Background(), userID)
	return nil
}

// ActiveSubscription 当前生效订阅，无则返回 (nil, nil)
func (s *PremiumService) ActiveSubscription(userID uint) (*models.Subscription, error) {
	return s.subRepo.GetActiveByUser(userID, time.Now())
}

// ListByUser 用户订阅历史
func (s *PremiumService) ListByUser(userID uint) ([]models.Subscription, error) {
	return s.subRepo.ListByUser(userID)
}

// IsPremium 用户是否处于会员期（Redis 快照优先，未命中回源）
func (s *PremiumService) IsPremium(userID uint) bool {
	if userID == 0 {
		return false
	}
	ctx := context.Background()
	if state, hit, err := cache.GetPremiumState(ctx, userID); err == nil && hit {
		if !state.Active {
			return false
		}
		return state.ExpiresAt > time.Now().Unix()
	}

	sub, err := s.ActiveSubscription(userID)
	if err != nil {
		logger.Warnw("premium_lookup_failed", "user_id", userID, "error", err)
		return false
	}

	state := &cache.PremiumState{
		UserID:    userID,
		Active:    sub != nil,
		UpdatedAt: time.Now().Unix(),
	}
	if sub != nil {
		state.Source = sub.Source
		state.ExpiresAt = sub.ExpiresAt.Unix()
		if sub.Plan != nil {
			state.PlanSlug = sub.Plan.Slug
		}
	}
	_ = cache.SetPremiumState(ctx, state, time.Duration(s.resolveCacheSecs())*time.Second)

	return sub != nil
}

// ExpireSubscription 到期处理（worker 调用）
func (s *PremiumService) ExpireSubscription(subscriptionID uint) error {
	sub, err := s.subRepo.GetByID(subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}
	// 续订过的订阅到期时间可能已后移，期内不处理
	if sub.Status != constants.SubscriptionStatusActive || sub.ExpiresAt.After(time.Now()) {
		return nil
	}
	if err := s.subRepo.MarkExpired(sub.ID); err != nil {
		return err
	}
	_ = cache.DelPremiumState(context.Background(), sub.UserID)
	logger.Infow("subscription_expired", "subscription_id", sub.ID, "user_id", sub.UserID)
	return nil
}

// ExpireOverdue 兜底批量过期（worker 周期任务）
func (s *PremiumService) ExpireOverdue() (int64, error) {
	return s.subRepo.ExpireOverdue(time.Now())
}

func (s *PremiumService) activate(userID uint, plan *models.SubscriptionPlan, days int, source string) (*models.Subscription, error) {
	now := time.Now()
	startsAt := now
	if current, err := s.subRepo.GetActiveByUser(userID, now); err != nil {
		return nil, err
	} else if current != nil {
		startsAt = current.ExpiresAt
	}
	expiresAt := startsAt.Add(time.Duration(days) * 24 * time.Hour)

	sub := &models.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    constants.SubscriptionStatusActive,
		Source:    source,
		StartsAt:  startsAt,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}
	sub.Plan = plan

	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueSubscriptionExpire(queue.SubscriptionExpirePayload{
			SubscriptionID: sub.ID,
			UserID:         userID,
		}, time.Until(expiresAt)); err != nil {
			logger.Warnw("subscription_expire_enqueue_failed", "subscription_id", sub.ID, "error", err)
		}
	}

	_ = cache.DelPremiumState(context.Background(), userID)
	return sub, nil
}

func (s *PremiumService) resolveCacheSecs() int {
	if s.cfg.Premium.SubscriptionCacheSecs <= 0 {
		return 60
	}
	return s.cfg.Premium.SubscriptionCacheSecs
}
