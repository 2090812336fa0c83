package service

import (
	"strings"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/queue"
	"github.com/studizen-api/internal/repository"
)

// TaskService 学习任务业务服务
type TaskService struct {
	cfg            *config.Config
	taskRepo       repository.TaskRepository
	premiumService *PremiumService
	queueClient    *queue.Client
}

// NewTaskService 创建任务服务
func NewTaskService(cfg *config.Config, taskRepo repository.TaskRepository, premiumService *PremiumService, queueClient *queue.Client) *TaskService {
	return &TaskService{
		cfg:            cfg,
		taskRepo:       taskRepo,
		premiumService: premiumService,
		queueClient:    queueClient,
	}
}

// TaskInput 任务写入参数
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueAt       *time.Time
}

// TaskUpdateInput 任务更新参数，nil 字段表示不修改
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueAt       *time.Time
	ClearDueAt  bool
}

// List 任务列表
func (s *TaskService) List(userID uint, filter repository.TaskListFilter) ([]models.Task, int64, error) {
	filter.UserID = userID
	if filter.Status != "" && !isTaskStatusValid(filter.Status) {
		return nil, 0, ErrTaskStatusInvalid
	}
	if filter.Priority != "" && !isTaskPriorityValid(filter.Priority) {
		return nil, 0, ErrTaskPriorityInvalid
	}
	return s.taskRepo.List(filter)
}

// Get 获取单条任务（校验归属）
func (s *TaskService) Get(userID, id uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.UserID != userID {
		return nil, ErrNotFound
	}
	return task, nil
}

// Create 创建任务（免费用户受未完成任务数上限约束）
func (s *TaskService) Create(userID uint, input TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = constants.TaskStatusPending
	}
	if !isTaskStatusValid(status) {
		return nil, ErrTaskStatusInvalid
	}
	priority := strings.ToLower(strings.TrimSpace(input.Priority))
	if priority == "" {
		priority = constants.TaskPriorityMedium
	}
	if !isTaskPriorityValid(priority) {
		return nil, ErrTaskPriorityInvalid
	}

	isPremium := s.premiumService.IsPremium(userID)
	if !isPremium {
		limit := resolveFreeTaskLimit(s.cfg.Premium)
		count, err := s.taskRepo.CountActiveByUser(userID)
		if err != nil {
			return nil, err
		}
		if count >= int64(limit) {
			return nil, ErrTaskLimitReached
		}
	}

	now := time.Now()
	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		DueAt:       input.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == constants.TaskStatusCompleted {
		task.CompletedAt = &now
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}

	s.scheduleReminder(task, isPremium)
	return task, nil
}

// Update 更新任务
func (s *TaskService) Update(userID, id uint, input TaskUpdateInput) (*models.Task, error) {
	task, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	dueChanged := false
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = trimmed
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		priority := strings.ToLower(strings.TrimSpace(*input.Priority))
		if !isTaskPriorityValid(priority) {
			return nil, ErrTaskPriorityInvalid
		}
		task.Priority = priority
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !isTaskStatusValid(status) {
			return nil, ErrTaskStatusInvalid
		}
		applyTaskStatus(task, status)
	}
	if input.ClearDueAt {
		task.DueAt = nil
		dueChanged = true
	} else if input.DueAt != nil {
		task.DueAt = input.DueAt
		dueChanged = true
	}

	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}

	if dueChanged || task.Status == constants.TaskStatusCompleted {
		s.cancelReminder(task)
		if task.Status != constants.TaskStatusCompleted {
			s.scheduleReminder(task, s.premiumService.IsPremium(userID))
		}
	}
	return task, nil
}

// UpdateStatus 更新任务状态
func (s *TaskService) UpdateStatus(userID, id uint, status string) (*models.Task, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if !isTaskStatusValid(normalized) {
		return nil, ErrTaskStatusInvalid
	}
	return s.Update(userID, id, TaskUpdateInput{Status: &normalized})
}

// Delete 删除任务
func (s *TaskService) Delete(userID, id uint) error {
	task, err := s.Get(userID, id)
	if err != nil {
		return err
	}
	s.cancelReminder(task)
	return s.taskRepo.Delete(id)
}

// applyTaskStatus 状态切换，完成态落 completed_at，重开时清空
func applyTaskStatus(task *models.Task, status string) {
	if task.Status == status {
		return
	}
	task.Status = status
	if status == constants.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
		return
	}
	task.CompletedAt = nil
}

// scheduleReminder 会员任务按截止时间提前排队提醒邮件
func (s *TaskService) scheduleReminder(task *models.Task, isPremium bool) {
	if !isPremium || task.DueAt == nil || s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if task.Status == constants.TaskStatusCompleted {
		return
	}

	lead := time.Duration(resolveReminderLeadHours(s.cfg.Premium)) * time.Hour
	remindAt := task.DueAt.Add(-lead)
	delay := time.Until(remindAt)
	if delay < 0 {
		return
	}

	taskID, err := s.queueClient.EnqueueTaskReminderEmail(queue.TaskReminderEmailPayload{
		TaskID: task.ID,
		UserID: task.UserID,
	}, delay)
	if err != nil {
		logger.Warnw("task_reminder_enqueue_failed", "task_id", task.ID, "error", err)
		return
	}
	if taskID == "" {
		return
	}
	task.ReminderTaskID = taskID
	if err := s.taskRepo.Update(task); err != nil {
		logger.Warnw("task_reminder_id_save_failed", "task_id", task.ID, "error", err)
	}
}

// cancelReminder 取消尚未执行的提醒
func (s *TaskService) cancelReminder(task *models.Task) {
	if task.ReminderTaskID == "" || s.queueClient == nil {
		return
	}
	if err := s.queueClient.CancelScheduled(task.ReminderTaskID); err != nil {
		logger.Warnw("task_reminder_cancel_failed", "task_id", task.ID, "error", err)
	}
	task.ReminderTaskID = ""
}

func isTaskStatusValid(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.TaskStatusPending, constants.TaskStatusInProgress, constants.TaskStatusCompleted:
		return true
	default:
		return false
	}
}

func isTaskPriorityValid(priority string) bool {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case constants.TaskPriorityLow, constants.TaskPriorityMedium, constants.TaskPriorityHigh:
		return true
	default:
		return false
	}
}

func resolveFreeTaskLimit(cfg config.PremiumConfig) int {
	if cfg.FreeTaskLimit <= 0 {
		return 20
	}
	return cfg.FreeTaskLimit
}

func resolveReminderLeadHours(cfg config.PremiumConfig) int {
	if cfg.ReminderLeadHours <= 0 {
		return 24
	}
	return cfg.ReminderLeadHours
}
