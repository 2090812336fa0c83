package admin

import (
	"strconv"
	"strings"

	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminTasks 获取任务列表（跨用户）
func (h *Handler) GetAdminTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.DefaultQuery("user_id", "0"), 10, 64)

	tasks, total, err := h.TaskRepo.List(repository.TaskListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   strings.TrimSpace(c.Query("status")),
		Priority: strings.TrimSpace(c.Query("priority")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, tasks, response.NewPagination(page, pageSize, total))
}
