package public

import (
	"errors"
	"strconv"

	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPlans 获取可订阅套餐列表
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.PremiumService.ListPlans()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"plans": plans})
}

// SubscribeRequest 订阅请求
type SubscribeRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

// Subscribe 开通或续订套餐
func (h *Handler) Subscribe(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	sub, err := h.PremiumService.Subscribe(id, req.PlanID)
	if err != nil {
		respondPremiumError(c, err)
		return
	}
	response.Success(c, sub)
}

// StartTrial 领取免费试用
func (h *Handler) StartTrial(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	sub, err := h.PremiumService.StartTrial(id)
	if err != nil {
		respondPremiumError(c, err)
		return
	}
	response.Success(c, sub)
}

// GetMySubscription 查询当前生效订阅
func (h *Handler) GetMySubscription(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	sub, err := h.PremiumService.ActiveSubscription(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"is_premium":   sub != nil,
		"subscription": sub,
	})
}

// ListMySubscriptions 查询订阅历史
func (h *Handler) ListMySubscriptions(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	subs, err := h.PremiumService.ListByUser(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"subscriptions": subs})
}

// CancelSubscription 取消订阅
func (h *Handler) CancelSubscription(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	subscriptionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.PremiumService.Cancel(id, uint(subscriptionID)); err != nil {
		respondPremiumError(c, err)
		return
	}
	response.Success(c, gin.H{"canceled": true})
}

func respondPremiumError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.subscription_not_found", nil)
	case errors.Is(err, service.ErrPlanDisabled):
		respondError(c, response.CodeBadRequest, "error.plan_disabled", nil)
	case errors.Is(err, service.ErrTrialAlreadyUsed):
		respondError(c, response.CodeBadRequest, "error.trial_already_used", nil)
	default:
		respondError(c, response.CodeInternal, "error.subscribe_failed", err)
	}
}
