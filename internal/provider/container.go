package provider

import (
	"github.com/studizen-api/internal/authz"
	"github.com/studizen-api/internal/cache"
	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/queue"
	"github.com/studizen-api/internal/repository"
	"github.com/studizen-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	OTPCodeRepo      repository.OTPCodeRepository
	ScheduleRepo     repository.ClassScheduleRepository
	TaskRepo         repository.TaskRepository
	PlanRepo         repository.SubscriptionPlanRepository
	SubscriptionRepo repository.SubscriptionRepository
	SettingRepo      repository.SettingRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserAuthService *service.UserAuthService
	OTPService      *service.OTPService
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	ScheduleService *service.ScheduleService
	TaskService     *service.TaskService
	PremiumService  *service.PremiumService
	SettingService  *service.SettingService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OTPCodeRepo = repository.NewOTPCodeRepository(db)
	c.ScheduleRepo = repository.NewClassScheduleRepository(db)
	c.TaskRepo = repository.NewTaskRepository(db)
	c.PlanRepo = repository.NewSubscriptionPlanRepository(db)
	c.SubscriptionRepo = repository.NewSubscriptionRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.OTPService = service.NewOTPService(c.Config, c.OTPCodeRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.OTPService, c.EmailService)
	c.ScheduleService = service.NewScheduleService(c.ScheduleRepo)
	c.PremiumService = service.NewPremiumService(c.Config, c.PlanRepo, c.SubscriptionRepo, c.UserRepo, c.QueueClient)
	c.TaskService = service.NewTaskService(c.Config, c.TaskRepo, c.PremiumService, c.QueueClient)
}
