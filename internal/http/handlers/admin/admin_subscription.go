package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/repository"
	"github.com/studizen-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GrantSubscriptionRequest 赠送会员请求
type GrantSubscriptionRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	PlanID uint `json:"plan_id" binding:"required"`
	Days   int  `json:"days"`
}

// GetAdminSubscriptions 获取订阅记录列表
func (h *Handler) GetAdminSubscriptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.DefaultQuery("user_id", "0"), 10, 64)
	planID, _ := strconv.ParseUint(c.DefaultQuery("plan_id", "0"), 10, 64)

	subs, total, err := h.SubscriptionRepo.List(repository.SubscriptionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		PlanID:   uint(planID),
		Status:   strings.TrimSpace(c.Query("status")),
		Source:   strings.TrimSpace(c.Query("source")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, subs, response.NewPagination(page, pageSize, total))
}

// GrantAdminSubscription 管理端赠送会员
func (h *Handler) GrantAdminSubscription(c *gin.Context) {
	var req GrantSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserRepo.GetByID(req.UserID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.subscribe_failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}

	sub, err := h.PremiumService.Grant(req.UserID, req.PlanID, req.Days)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
		case errors.Is(err, service.ErrPlanDisabled):
			respondError(c, response.CodeBadRequest, "error.plan_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.subscribe_failed", err)
		}
		return
	}

	logger.Infow("admin_subscription_granted",
		"operator_admin_id", currentAdminID(c),
		"user_id", req.UserID,
		"plan_id", req.PlanID,
		"subscription_id", sub.ID,
	)

	response.Success(c, sub)
}

// ExpireAdminSubscription 立即过期指定订阅
func (h *Handler) ExpireAdminSubscription(c *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.PremiumService.ExpireSubscription(uint(id)); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// ExpireOverdueSubscriptions 批量过期已到期订阅
func (h *Handler) ExpireOverdueSubscriptions(c *gin.Context) {
	affected, err := h.PremiumService.ExpireOverdue()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	if affected > 0 {
		logger.Infow("admin_subscriptions_expired",
			"operator_admin_id", currentAdminID(c),
			"affected", affected,
		)
	}
	response.Success(c, gin.H{"expired": affected})
}
