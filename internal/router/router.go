package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studizen-api/internal/authz"
	"github.com/studizen-api/internal/cache"
	"github.com/studizen-api/internal/config"
	adminhandlers "github.com/studizen-api/internal/http/handlers/admin"
	publichandlers "github.com/studizen-api/internal/http/handlers/public"
	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/logger"
	"github.com/studizen-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sdz"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	sendCodeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:send_code", redisPrefix),
		WindowSeconds: cfg.Security.SendCodeRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SendCodeRateLimit.MaxAttempts,
		MessageKey:    "error.send_code_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/appearance", publicHandler.GetAppearance)
			public.GET("/locales", publicHandler.GetLocales)
			public.GET("/plans", publicHandler.ListPlans)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, sendCodeRule, KeyByIPAndJSONField("email")), publicHandler.UserRegister)
			auth.POST("/verify-email", publicHandler.UserVerifyEmail)
			auth.POST("/resend-verify-code", RateLimitMiddleware(redisClient, sendCodeRule, KeyByIPAndJSONField("email")), publicHandler.UserResendVerifyCode)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/forgot-password", RateLimitMiddleware(redisClient, sendCodeRule, KeyByIPAndJSONField("email")), publicHandler.UserForgotPassword)
			auth.POST("/reset-password", publicHandler.UserResetPassword)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.POST("/auth/logout", publicHandler.UserLogout)
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateUserProfile)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)

			user.GET("/schedules", publicHandler.ListSchedules)
			user.GET("/schedules/export", publicHandler.ExportSchedules)
			user.GET("/schedules/:id", publicHandler.GetSchedule)
			user.POST("/schedules", publicHandler.CreateSchedule)
			user.PUT("/schedules/:id", publicHandler.UpdateSchedule)
			user.DELETE("/schedules/:id", publicHandler.DeleteSchedule)

			user.GET("/tasks", publicHandler.ListTasks)
			user.GET("/tasks/:id", publicHandler.GetTask)
			user.POST("/tasks", publicHandler.CreateTask)
			user.PUT("/tasks/:id", publicHandler.UpdateTask)
			user.PATCH("/tasks/:id/status", publicHandler.UpdateTaskStatus)
			user.DELETE("/tasks/:id", publicHandler.DeleteTask)

			user.GET("/premium/me", publicHandler.GetMySubscription)
			user.GET("/premium/subscriptions", publicHandler.ListMySubscriptions)
			user.POST("/premium/subscribe", publicHandler.Subscribe)
			user.POST("/premium/trial", publicHandler.StartTrial)
			user.POST("/premium/subscriptions/:id/cancel", publicHandler.CancelSubscription)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetCurrentAdmin)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.PUT("/locale", adminHandler.UpdateAdminLocale)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PUT("/users/batch-status", adminHandler.BatchUpdateAdminUserStatus)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.PUT("/users/:id", adminHandler.UpdateAdminUser)
				authorized.DELETE("/users/:id", adminHandler.DeleteAdminUser)

				// 任务与课程表查询
				authorized.GET("/tasks", adminHandler.GetAdminTasks)
				authorized.GET("/schedules", adminHandler.GetAdminSchedules)

				// 会员套餐管理
				authorized.GET("/plans", adminHandler.GetAdminPlans)
				authorized.POST("/plans", adminHandler.CreateAdminPlan)
				authorized.PUT("/plans/:id", adminHandler.UpdateAdminPlan)
				authorized.DELETE("/plans/:id", adminHandler.DeleteAdminPlan)

				// 订阅管理
				authorized.GET("/subscriptions", adminHandler.GetAdminSubscriptions)
				authorized.POST("/subscriptions/grant", adminHandler.GrantAdminSubscription)
				authorized.POST("/subscriptions/expire-overdue", adminHandler.ExpireOverdueSubscriptions)
				authorized.POST("/subscriptions/:id/expire", adminHandler.ExpireAdminSubscription)

				// 设置管理
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings", adminHandler.UpdateSettings)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
