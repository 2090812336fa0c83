package public

import (
	"errors"
	"strconv"
	"time"

	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ScheduleRequest 课程写入请求
type ScheduleRequest struct {
	CourseName string `json:"course_name" binding:"required"`
	Lecturer   string `json:"lecturer"`
	Room       string `json:"room"`
	DayOfWeek  int    `json:"day_of_week" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	Color      string `json:"color"`
}

func (r ScheduleRequest) toServiceInput() service.ScheduleInput {
	return service.ScheduleInput{
		CourseName: r.CourseName,
		Lecturer:   r.Lecturer,
		Room:       r.Room,
		DayOfWeek:  r.DayOfWeek,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Color:      r.Color,
	}
}

// ListSchedules 获取当前用户课程表，支持按星期筛选
func (h *Handler) ListSchedules(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	dayOfWeek, _ := strconv.Atoi(c.DefaultQuery("day_of_week", "0"))
	schedules, err := h.ScheduleService.List(id, dayOfWeek)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleTimeInvalid):
			respondError(c, response.CodeBadRequest, "error.schedule_time_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.schedule_fetch_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"schedules": schedules})
}

// GetSchedule 获取单条课程
func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	schedule, err := h.ScheduleService.Get(id, uint(scheduleID))
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	response.Success(c, schedule)
}

// CreateSchedule 创建课程
func (h *Handler) CreateSchedule(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	schedule, err := h.ScheduleService.Create(id, req.toServiceInput())
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	response.Success(c, schedule)
}

// UpdateSchedule 更新课程
func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	schedule, err := h.ScheduleService.Update(id, uint(scheduleID), req.toServiceInput())
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	response.Success(c, schedule)
}

// DeleteSchedule 删除课程
func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.ScheduleService.Delete(id, uint(scheduleID)); err != nil {
		respondScheduleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ExportSchedules 导出 iCalendar 格式课程表（会员功能）
func (h *Handler) ExportSchedules(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	if h.PremiumService == nil || !h.PremiumService.IsPremium(id) {
		respondError(c, response.CodeForbidden, "error.premium_required", nil)
		return
	}

	// 以本周周一为导出基准周
	now := time.Now()
	offset := (int(now.Weekday()) + 6) % 7
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -offset)

	ics, err := h.ScheduleService.ExportICS(id, weekStart)
	if err != nil {
		respondError(c, response.CodeInternal, "error.schedule_fetch_failed", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(200, "text/calendar; charset=utf-8", []byte(ics))
}

func respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.schedule_not_found", nil)
	case errors.Is(err, service.ErrScheduleNameRequired):
		respondError(c, response.CodeBadRequest, "error.schedule_name_required", nil)
	case errors.Is(err, service.ErrScheduleTimeInvalid):
		respondError(c, response.CodeBadRequest, "error.schedule_time_invalid", nil)
	case errors.Is(err, service.ErrScheduleConflict):
		respondError(c, response.CodeBadRequest, "error.schedule_conflict", nil)
	default:
		respondError(c, response.CodeInternal, "error.schedule_save_failed", err)
	}
}
