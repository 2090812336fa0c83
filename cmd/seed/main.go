package main

import (
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 会员套餐
	plans := []models.SubscriptionPlan{
		{
			Slug: "premium-monthly",
			NameJSON: models.JSON(map[string]interface{}{
				"en-US": "Premium Monthly",
				"id-ID": "Premium Bulanan",
				"zh-CN": "高级会员（月付）",
			}),
			Description: models.JSON(map[string]interface{}{
				"en-US": "Unlimited tasks and due-date reminder emails for one month",
				"id-ID": "Tugas tanpa batas dan email pengingat tenggat selama satu bulan",
				"zh-CN": "一个月内任务数量不受限制，并提供截止提醒邮件",
			}),
			Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(29000)),
			Currency:     "IDR",
			DurationDays: 30,
			Features:     models.StringArray{"unlimited_tasks", "task_reminders"},
			Enabled:      true,
			SortOrder:    1,
		},
		{
			Slug: "premium-yearly",
			NameJSON: models.JSON(map[string]interface{}{
				"en-US": "Premium Yearly",
				"id-ID": "Premium Tahunan",
				"zh-CN": "高级会员（年付）",
			}),
			Description: models.JSON(map[string]interface{}{
				"en-US": "A full year of unlimited tasks and reminder emails",
				"id-ID": "Satu tahun penuh tugas tanpa batas dan email pengingat",
				"zh-CN": "一整年任务数量不受限制，并提供截止提醒邮件",
			}),
			Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(290000)),
			Currency:     "IDR",
			DurationDays: 365,
			Features:     models.StringArray{"unlimited_tasks", "task_reminders"},
			Enabled:      true,
			SortOrder:    2,
		},
	}

	for _, plan := range plans {
		var existing models.SubscriptionPlan
		if err := models.DB.Where("slug = ?", plan.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&plan).Error; err != nil {
				stdLog.Printf("Failed to create plan %s: %v", plan.Slug, err)
			} else {
				stdLog.Printf("Created plan: %s", plan.Slug)
			}
		} else {
			stdLog.Printf("Plan already exists: %s", plan.Slug)
		}
	}

	// 演示用户
	demoEmail := "demo@studizen.id"
	var demoUser models.User
	if err := models.DB.Where("email = ?", demoEmail).First(&demoUser).Error; err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("Demo1234!"), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash demo password: %v", err)
		}
		now := time.Now()
		demoUser = models.User{
			Email:           demoEmail,
			PasswordHash:    string(hash),
			DisplayName:     "Demo Mahasiswa",
			University:      "Universitas Indonesia",
			Major:           "Teknik Informatika",
			Locale:          "id-ID",
			Status:          constants.UserStatusActive,
			EmailVerifiedAt: &now,
		}
		if err := models.DB.Create(&demoUser).Error; err != nil {
			stdLog.Fatalf("Failed to create demo user: %v", err)
		}
		stdLog.Printf("Created demo user: %s", demoEmail)
	} else {
		stdLog.Printf("Demo user already exists: %s", demoEmail)
	}

	// 演示课程表
	schedules := []models.ClassSchedule{
		{UserID: demoUser.ID, CourseName: "Algoritma dan Struktur Data", Lecturer: "Dr. Sari", Room: "A-301", DayOfWeek: 1, StartTime: "08:00", EndTime: "09:40", Color: "#4f46e5"},
		{UserID: demoUser.ID, CourseName: "Basis Data", Lecturer: "Prof. Budi", Room: "B-105", DayOfWeek: 3, StartTime: "10:00", EndTime: "11:40", Color: "#059669"},
	}
	for _, schedule := range schedules {
		var count int64
		models.DB.Model(&models.ClassSchedule{}).
			Where("user_id = ? AND course_name = ?", schedule.UserID, schedule.CourseName).
			Count(&count)
		if count > 0 {
			stdLog.Printf("Schedule already exists: %s", schedule.CourseName)
			continue
		}
		if err := models.DB.Create(&schedule).Error; err != nil {
			stdLog.Printf("Failed to create schedule %s: %v", schedule.CourseName, err)
		} else {
			stdLog.Printf("Created schedule: %s", schedule.CourseName)
		}
	}

	// 演示任务
	dueAt := time.Now().Add(72 * time.Hour)
	tasks := []models.Task{
		{UserID: demoUser.ID, Title: "Tugas Besar Basis Data", Description: "Selesaikan bab ERD", Status: constants.TaskStatusPending, Priority: constants.TaskPriorityHigh, DueAt: &dueAt},
		{UserID: demoUser.ID, Title: "Baca materi minggu depan", Status: constants.TaskStatusPending, Priority: constants.TaskPriorityLow},
	}
	for _, task := range tasks {
		var count int64
		models.DB.Model(&models.Task{}).
			Where("user_id = ? AND title = ?", task.UserID, task.Title).
			Count(&count)
		if count > 0 {
			stdLog.Printf("Task already exists: %s", task.Title)
			continue
		}
		if err := models.DB.Create(&task).Error; err != nil {
			stdLog.Printf("Failed to create task %s: %v", task.Title, err)
		} else {
			stdLog.Printf("Created task: %s", task.Title)
		}
	}

	stdLog.Printf("Seed finished")
}
