package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 任务状态常量
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// 任务优先级常量
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// 订阅状态常量
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusExpired  = "expired"
	SubscriptionStatusCanceled = "canceled"
)

// 订阅来源常量
const (
	SubscriptionSourcePurchase = "purchase"
	SubscriptionSourceTrial    = "trial"
	SubscriptionSourceAdmin    = "admin_grant"
)

// 验证码用途常量（仅影响邮件文案，码本身不区分用途）
const (
	OTPPurposeRegister = "register"
	OTPPurposeReset    = "reset"
)

// 验证码场景常量
const (
	CaptchaSceneLogin            = "login"
	CaptchaSceneRegisterSendCode = "register_send_code"
	CaptchaSceneResetSendCode    = "reset_send_code"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskTypeTaskReminderEmail  = "task:reminder_email"
	TaskTypeSubscriptionExpire = "subscription:expire"
)

// 主题常量
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// 设置键常量
const (
	SettingKeySiteConfig = "site_config"
	SettingKeyAppearance = "appearance"
)

// 设置字段常量
const (
	SettingFieldDefaultTheme  = "default_theme"
	SettingFieldDefaultLocale = "default_locale"
)

// 星期常量（课程表 day_of_week 取值 1=Monday ... 7=Sunday）
const (
	WeekdayMin = 1
	WeekdayMax = 7
)
