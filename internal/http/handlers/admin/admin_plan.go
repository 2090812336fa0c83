package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PlanRequest 套餐写入请求
type PlanRequest struct {
	Slug         string                 `json:"slug" binding:"required"`
	Name         map[string]interface{} `json:"name" binding:"required"`
	Description  map[string]interface{} `json:"description"`
	Price        float64                `json:"price"`
	Currency     string                 `json:"currency"`
	DurationDays int                    `json:"duration_days" binding:"required"`
	Features     []string               `json:"features"`
	Enabled      *bool                  `json:"enabled"`
	SortOrder    int                    `json:"sort_order"`
}

// GetAdminPlans 获取套餐列表（含停售）
func (h *Handler) GetAdminPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	plans, total, err := h.PlanRepo.List(repository.PlanListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}

	response.SuccessWithPage(c, plans, response.NewPagination(page, pageSize, total))
}

// CreateAdminPlan 创建套餐
func (h *Handler) CreateAdminPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.DurationDays <= 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	existing, err := h.PlanRepo.GetBySlug(slug)
	if err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeBadRequest, "error.plan_slug_exists", nil)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "IDR"
	}

	now := time.Now()
	plan := &models.SubscriptionPlan{
		Slug:         slug,
		NameJSON:     models.JSON(req.Name),
		Description:  models.JSON(req.Description),
		Price:        models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Price)),
		Currency:     currency,
		DurationDays: req.DurationDays,
		Features:     models.StringArray(req.Features),
		Enabled:      enabled,
		SortOrder:    req.SortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.PlanRepo.Create(plan); err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}

	response.Success(c, plan)
}

// UpdateAdminPlan 更新套餐
func (h *Handler) UpdateAdminPlan(c *gin.Context) {
	planID, ok := parsePlanIDParam(c)
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.DurationDays <= 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	plan, err := h.PlanRepo.GetByID(planID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}
	if plan == nil {
		respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	existing, err := h.PlanRepo.GetBySlug(slug)
	if err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}
	if existing != nil && existing.ID != plan.ID {
		respondError(c, response.CodeBadRequest, "error.plan_slug_exists", nil)
		return
	}

	plan.Slug = slug
	plan.NameJSON = models.JSON(req.Name)
	plan.Description = models.JSON(req.Description)
	plan.Price = models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Price))
	if currency := strings.ToUpper(strings.TrimSpace(req.Currency)); currency != "" {
		plan.Currency = currency
	}
	plan.DurationDays = req.DurationDays
	plan.Features = models.StringArray(req.Features)
	if req.Enabled != nil {
		plan.Enabled = *req.Enabled
	}
	plan.SortOrder = req.SortOrder
	plan.UpdatedAt = time.Now()

	if err := h.PlanRepo.Update(plan); err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}

	response.Success(c, plan)
}

// DeleteAdminPlan 删除套餐（软删除）
func (h *Handler) DeleteAdminPlan(c *gin.Context) {
	planID, ok := parsePlanIDParam(c)
	if !ok {
		return
	}

	plan, err := h.PlanRepo.GetByID(planID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}
	if plan == nil {
		respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
		return
	}

	if err := h.PlanRepo.Delete(planID); err != nil {
		respondError(c, response.CodeInternal, "error.plan_save_failed", err)
		return
	}

	response.Success(c, nil)
}

func parsePlanIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
