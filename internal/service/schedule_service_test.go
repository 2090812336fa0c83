package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newScheduleTestService(t *testing.T) *ScheduleService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ClassSchedule{}); err != nil {
		t.Fatalf("auto migrate schedules failed: %v", err)
	}
	return NewScheduleService(repository.NewClassScheduleRepository(db))
}

func TestScheduleCreateRejectsOverlap(t *testing.T) {
	svc := newScheduleTestService(t)
	userID := uint(1)

	if _, err := svc.Create(userID, ScheduleInput{
		CourseName: "Algoritma",
		DayOfWeek:  1,
		StartTime:  "08:00",
		EndTime:    "09:40",
	}); err != nil {
		t.Fatalf("create first schedule failed: %v", err)
	}

	cases := []struct {
		name      string
		start     string
		end       string
		wantError error
	}{
		{"inside existing slot", "08:30", "09:00", ErrScheduleConflict},
		{"overlaps tail", "09:00", "10:00", ErrScheduleConflict},
		{"overlaps head", "07:00", "08:30", ErrScheduleConflict},
		{"covers existing slot", "07:00", "11:00", ErrScheduleConflict},
		{"back to back after", "09:40", "11:00", nil},
		{"back to back before", "07:00", "08:00", nil},
	}
	for _, tc := range cases {
		_, err := svc.Create(userID, ScheduleInput{
			CourseName: "Lain " + tc.name,
			DayOfWeek:  1,
			StartTime:  tc.start,
			EndTime:    tc.end,
		})
		if tc.wantError == nil && err != nil {
			t.Fatalf("%s: expected success, got %v", tc.name, err)
		}
		if tc.wantError != nil && !errors.Is(err, tc.wantError) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantError, err)
		}
	}
}

func TestScheduleOverlapScopedToDayAndUser(t *testing.T) {
	svc := newScheduleTestService(t)

	if _, err := svc.Create(1, ScheduleInput{CourseName: "Basis Data", DayOfWeek: 2, StartTime: "10:00", EndTime: "11:40"}); err != nil {
		t.Fatalf("create schedule failed: %v", err)
	}
	// 不同天不冲突
	if _, err := svc.Create(1, ScheduleInput{CourseName: "Kalkulus", DayOfWeek: 3, StartTime: "10:00", EndTime: "11:40"}); err != nil {
		t.Fatalf("expected other day to pass, got %v", err)
	}
	// 不同用户不冲突
	if _, err := svc.Create(2, ScheduleInput{CourseName: "Fisika", DayOfWeek: 2, StartTime: "10:00", EndTime: "11:40"}); err != nil {
		t.Fatalf("expected other user to pass, got %v", err)
	}
}

func TestScheduleUpdateSkipsSelfOverlap(t *testing.T) {
	svc := newScheduleTestService(t)
	created, err := svc.Create(1, ScheduleInput{CourseName: "Statistika", DayOfWeek: 4, StartTime: "13:00", EndTime: "14:40"})
	if err != nil {
		t.Fatalf("create schedule failed: %v", err)
	}

	// 自身时间段微调不应被自己挡住
	updated, err := svc.Update(1, created.ID, ScheduleInput{CourseName: "Statistika", DayOfWeek: 4, StartTime: "13:30", EndTime: "15:00"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.StartTime != "13:30" || updated.EndTime != "15:00" {
		t.Fatalf("unexpected times after update: %s-%s", updated.StartTime, updated.EndTime)
	}
}

func TestScheduleInputValidation(t *testing.T) {
	svc := newScheduleTestService(t)

	cases := []struct {
		name      string
		input     ScheduleInput
		wantError error
	}{
		{"empty name", ScheduleInput{CourseName: "  ", DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"}, ErrScheduleNameRequired},
		{"day too small", ScheduleInput{CourseName: "A", DayOfWeek: 0, StartTime: "08:00", EndTime: "09:00"}, ErrScheduleTimeInvalid},
		{"day too large", ScheduleInput{CourseName: "A", DayOfWeek: 8, StartTime: "08:00", EndTime: "09:00"}, ErrScheduleTimeInvalid},
		{"bad start time", ScheduleInput{CourseName: "A", DayOfWeek: 1, StartTime: "25:00", EndTime: "09:00"}, ErrScheduleTimeInvalid},
		{"start equals end", ScheduleInput{CourseName: "A", DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00"}, ErrScheduleTimeInvalid},
		{"start after end", ScheduleInput{CourseName: "A", DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"}, ErrScheduleTimeInvalid},
	}
	for _, tc := range cases {
		if _, err := svc.Create(1, tc.input); !errors.Is(err, tc.wantError) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantError, err)
		}
	}
}

func TestScheduleGetEnforcesOwnership(t *testing.T) {
	svc := newScheduleTestService(t)
	created, err := svc.Create(1, ScheduleInput{CourseName: "Jaringan", DayOfWeek: 5, StartTime: "08:00", EndTime: "09:40"})
	if err != nil {
		t.Fatalf("create schedule failed: %v", err)
	}

	if _, err := svc.Get(2, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := svc.Delete(2, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner delete, got %v", err)
	}
	if err := svc.Delete(1, created.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestScheduleExportICS(t *testing.T) {
	svc := newScheduleTestService(t)
	if _, err := svc.Create(7, ScheduleInput{
		CourseName: "Basis Data; Lanjut",
		Lecturer:   "Pak Ahmad",
		Room:       "Lab 3",
		DayOfWeek:  2,
		StartTime:  "10:00",
		EndTime:    "11:40",
	}); err != nil {
		t.Fatalf("create schedule failed: %v", err)
	}
	if _, err := svc.Create(8, ScheduleInput{CourseName: "Milik orang lain", DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"}); err != nil {
		t.Fatalf("create other user schedule failed: %v", err)
	}

	// 2026-08-31 是周一
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	ics, err := svc.ExportICS(7, weekStart)
	if err != nil {
		t.Fatalf("export ics failed: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"DTSTART:20260901T100000",
		"DTEND:20260901T114000",
		"RRULE:FREQ=WEEKLY;BYDAY=TU",
		"SUMMARY:Basis Data\\; Lanjut",
		"LOCATION:Lab 3",
		"DESCRIPTION:Pak Ahmad",
	} {
		if !strings.Contains(ics, want) {
			t.Fatalf("ics missing %q:\n%s", want, ics)
		}
	}
	if strings.Contains(ics, "Milik orang lain") {
		t.Fatalf("ics leaked another user's schedule:\n%s", ics)
	}
}

func TestScheduleExportICSEmpty(t *testing.T) {
	svc := newScheduleTestService(t)
	ics, err := svc.ExportICS(1, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("export ics failed: %v", err)
	}
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Fatalf("expected no events, got:\n%s", ics)
	}
}
