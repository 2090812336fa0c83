package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"
)

// ScheduleService 课程表业务服务
type ScheduleService struct {
	scheduleRepo repository.ClassScheduleRepository
}

// NewScheduleService 创建课程表服务
func NewScheduleService(scheduleRepo repository.ClassScheduleRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo}
}

// ScheduleInput 课程写入参数
type ScheduleInput struct {
	CourseName string
	Lecturer   string
	Room       string
	DayOfWeek  int
	StartTime  string
	EndTime    string
	Color      string
}

// List 获取用户课程表
func (s *ScheduleService) List(userID uint, dayOfWeek int) ([]models.ClassSchedule, error) {
	if dayOfWeek != 0 && (dayOfWeek < constants.WeekdayMin || dayOfWeek > constants.WeekdayMax) {
		return nil, ErrScheduleTimeInvalid
	}
	return s.scheduleRepo.ListByUser(repository.ScheduleListFilter{
		UserID:    userID,
		DayOfWeek: dayOfWeek,
	})
}

// Get 获取单条课程（校验归属）
func (s *ScheduleService) Get(userID, id uint) (*models.ClassSchedule, error) {
	schedule, err := s.scheduleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if schedule == nil || schedule.UserID != userID {
		return nil, ErrNotFound
	}
	return schedule, nil
}

// Create 创建课程
func (s *ScheduleService) Create(userID uint, input ScheduleInput) (*models.ClassSchedule, error) {
	normalized, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(userID, 0, normalized); err != nil {
		return nil, err
	}

	now := time.Now()
	schedule := &models.ClassSchedule{
		UserID:     userID,
		CourseName: normalized.CourseName,
		Lecturer:   normalized.Lecturer,
		Room:       normalized.Room,
		DayOfWeek:  normalized.DayOfWeek,
		StartTime:  normalized.StartTime,
		EndTime:    normalized.EndTime,
		Color:      normalized.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.scheduleRepo.Create(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Update 更新课程
func (s *ScheduleService) Update(userID, id uint, input ScheduleInput) (*models.ClassSchedule, error) {
	schedule, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	normalized, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(userID, id, normalized); err != nil {
		return nil, err
	}

	schedule.CourseName = normalized.CourseName
	schedule.Lecturer = normalized.Lecturer
	schedule.Room = normalized.Room
	schedule.DayOfWeek = normalized.DayOfWeek
	schedule.StartTime = normalized.StartTime
	schedule.EndTime = normalized.EndTime
	schedule.Color = normalized.Color
	schedule.UpdatedAt = time.Now()
	if err := s.scheduleRepo.Update(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Delete 删除课程
func (s *ScheduleService) Delete(userID, id uint) error {
	if _, err := s.Get(userID, id); err != nil {
		return err
	}
	return s.scheduleRepo.Delete(id)
}

// icsWeekdays DayOfWeek（1=周一）到 iCalendar BYDAY 的映射
var icsWeekdays = [8]string{"", "MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// ExportICS 导出 iCalendar 周课表
// weekStart 应为某周周一零点，课程落到该周对应日期并按周重复
func (s *ScheduleService) ExportICS(userID uint, weekStart time.Time) (string, error) {
	schedules, err := s.scheduleRepo.ListByUser(repository.ScheduleListFilter{UserID: userID})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//Studizen//Class Schedule//EN")

	for _, item := range schedules {
		if item.DayOfWeek < constants.WeekdayMin || item.DayOfWeek > constants.WeekdayMax {
			continue
		}
		start, ok := parseClassTime(item.StartTime)
		if !ok {
			continue
		}
		end, ok := parseClassTime(item.EndTime)
		if !ok {
			continue
		}
		day := weekStart.AddDate(0, 0, item.DayOfWeek-1)
		dtStart := time.Date(day.Year(), day.Month(), day.Day(), start/60, start%60, 0, 0, day.Location())
		dtEnd := time.Date(day.Year(), day.Month(), day.Day(), end/60, end%60, 0, 0, day.Location())

		writeLine("BEGIN:VEVENT")
		writeLine(fmt.Sprintf("UID:class-%d@studizen", item.ID))
		writeLine("DTSTART:" + dtStart.Format("20060102T150405"))
		writeLine("DTEND:" + dtEnd.Format("20060102T150405"))
		writeLine("RRULE:FREQ=WEEKLY;BYDAY=" + icsWeekdays[item.DayOfWeek])
		writeLine("SUMMARY:" + escapeICSText(item.CourseName))
		if item.Room != "" {
			writeLine("LOCATION:" + escapeICSText(item.Room))
		}
		if item.Lecturer != "" {
			writeLine("DESCRIPTION:" + escapeICSText(item.Lecturer))
		}
		writeLine("END:VEVENT")
	}

	writeLine("END:VCALENDAR")
	return b.String(), nil
}

func escapeICSText(value string) string {
	replacer := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return replacer.Replace(value)
}

func (s *ScheduleService) normalizeInput(input ScheduleInput) (ScheduleInput, error) {
	input.CourseName = strings.TrimSpace(input.CourseName)
	input.Lecturer = strings.TrimSpace(input.Lecturer)
	input.Room = strings.TrimSpace(input.Room)
	input.Color = strings.TrimSpace(input.Color)

	if input.CourseName == "" {
		return input, ErrScheduleNameRequired
	}
	if input.DayOfWeek < constants.WeekdayMin || input.DayOfWeek > constants.WeekdayMax {
		return input, ErrScheduleTimeInvalid
	}

	start, ok := parseClassTime(input.StartTime)
	if !ok {
		return input, ErrScheduleTimeInvalid
	}
	end, ok := parseClassTime(input.EndTime)
	if !ok {
		return input, ErrScheduleTimeInvalid
	}
	if start >= end {
		return input, ErrScheduleTimeInvalid
	}
	input.StartTime = formatClassTime(start)
	input.EndTime = formatClassTime(end)
	return input, nil
}

// checkOverlap 同一天内时间区间不允许重叠（首尾相接不算重叠）
func (s *ScheduleService) checkOverlap(userID, excludeID uint, input ScheduleInput) error {
	existing, err := s.scheduleRepo.ListByUser(repository.ScheduleListFilter{
		UserID:    userID,
		DayOfWeek: input.DayOfWeek,
	})
	if err != nil {
		return err
	}

	start, _ := parseClassTime(input.StartTime)
	end, _ := parseClassTime(input.EndTime)
	for _, item := range existing {
		if item.ID == excludeID {
			continue
		}
		otherStart, ok := parseClassTime(item.StartTime)
		if !ok {
			continue
		}
		otherEnd, ok := parseClassTime(item.EndTime)
		if !ok {
			continue
		}
		if start < otherEnd && otherStart < end {
			return ErrScheduleConflict
		}
	}
	return nil
}

// parseClassTime 解析 HH:MM 为当天分钟数
func parseClassTime(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	parsed, err := time.Parse("15:04", trimmed)
	if err != nil {
		return 0, false
	}
	return parsed.Hour()*60 + parsed.Minute(), true
}

func formatClassTime(minutes int) string {
	return time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04")
}
