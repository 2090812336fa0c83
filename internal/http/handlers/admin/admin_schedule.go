package admin

import (
	"strconv"

	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminSchedules 获取指定用户的课程表
func (h *Handler) GetAdminSchedules(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.DefaultQuery("user_id", "0"), 10, 64)
	if userID == 0 {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}
	dayOfWeek, _ := strconv.Atoi(c.DefaultQuery("day_of_week", "0"))

	schedules, err := h.ScheduleRepo.ListByUser(repository.ScheduleListFilter{
		UserID:    uint(userID),
		DayOfWeek: dayOfWeek,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.schedule_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"schedules": schedules})
}
