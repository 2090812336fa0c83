package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/repository"
	"github.com/studizen-api/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskCreateRequest 任务创建请求
type TaskCreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
}

// TaskUpdateRequest 任务更新请求，缺省字段表示不修改
type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
	ClearDueAt  bool       `json:"clear_due_at"`
}

// TaskStatusRequest 任务状态更新请求
type TaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListTasks 获取当前用户任务列表
func (h *Handler) ListTasks(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.TaskListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Priority: strings.TrimSpace(c.Query("priority")),
		Keyword:  strings.TrimSpace(c.Query("search")),
		OrderBy:  strings.TrimSpace(c.Query("order_by")),
	}
	if from := parseTimeQuery(c.Query("due_from")); from != nil {
		filter.DueFrom = from
	}
	if to := parseTimeQuery(c.Query("due_to")); to != nil {
		filter.DueTo = to
	}

	tasks, total, err := h.TaskService.List(id, filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	response.SuccessWithPage(c, gin.H{"tasks": tasks}, response.NewPagination(page, pageSize, total))
}

// GetTask 获取单条任务
func (h *Handler) GetTask(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	task, err := h.TaskService.Get(id, uint(taskID))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.Success(c, task)
}

// CreateTask 创建任务
func (h *Handler) CreateTask(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	task, err := h.TaskService.Create(id, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueAt:       req.DueAt,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.Success(c, task)
}

// UpdateTask 更新任务
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	task, err := h.TaskService.Update(id, uint(taskID), service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueAt:       req.DueAt,
		ClearDueAt:  req.ClearDueAt,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.Success(c, task)
}

// UpdateTaskStatus 更新任务状态
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	task, err := h.TaskService.UpdateStatus(id, uint(taskID), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	response.Success(c, task)
}

// DeleteTask 删除任务
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.TaskService.Delete(id, uint(taskID)); err != nil {
		respondTaskError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.task_not_found", nil)
	case errors.Is(err, service.ErrTaskTitleRequired):
		respondError(c, response.CodeBadRequest, "error.task_title_required", nil)
	case errors.Is(err, service.ErrTaskStatusInvalid):
		respondError(c, response.CodeBadRequest, "error.task_status_invalid", nil)
	case errors.Is(err, service.ErrTaskPriorityInvalid):
		respondError(c, response.CodeBadRequest, "error.task_priority_invalid", nil)
	case errors.Is(err, service.ErrTaskLimitReached):
		respondError(c, response.CodeForbidden, "error.task_limit_reached", nil)
	default:
		respondError(c, response.CodeInternal, "error.task_save_failed", err)
	}
}

func parseTimeQuery(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return &parsed
	}
	return nil
}
