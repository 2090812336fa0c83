package service

import "errors"

// 业务错误哨兵，handler 层统一映射为响应码和多语言文案
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidEmail       = errors.New("邮箱格式无效")
	ErrEmailExists        = errors.New("邮箱已注册")
	ErrInvalidCredentials = errors.New("账号或密码错误")
	ErrInvalidPassword    = errors.New("当前密码不正确")
	ErrWeakPassword       = errors.New("密码不符合安全策略")
	ErrEmailNotVerified   = errors.New("邮箱未验证")
	ErrAlreadyVerified    = errors.New("邮箱已验证")
	ErrUserDisabled       = errors.New("账号已禁用")
	ErrProfileEmpty       = errors.New("没有可更新的内容")

	ErrOTPInvalid          = errors.New("验证码错误")
	ErrOTPExpired          = errors.New("验证码已过期")
	ErrOTPNotFound         = errors.New("验证码不存在")
	ErrOTPAttemptsExceeded = errors.New("验证码尝试次数超限")
	ErrOTPTooFrequent      = errors.New("验证码请求过于频繁")

	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrEmailRecipientRejected    = errors.New("收件地址被拒绝")

	ErrCaptchaRequired      = errors.New("需要图形验证码")
	ErrCaptchaInvalid       = errors.New("图形验证码错误")
	ErrCaptchaConfigInvalid = errors.New("图形验证码配置无效")

	ErrScheduleNameRequired = errors.New("课程名称不能为空")
	ErrScheduleTimeInvalid  = errors.New("课程时间区间无效")
	ErrScheduleConflict     = errors.New("课程时间冲突")

	ErrTaskTitleRequired   = errors.New("任务标题不能为空")
	ErrTaskLimitReached    = errors.New("免费版任务数已达上限")
	ErrTaskStatusInvalid   = errors.New("任务状态无效")
	ErrTaskPriorityInvalid = errors.New("任务优先级无效")

	ErrPlanDisabled     = errors.New("订阅套餐不可用")
	ErrPremiumRequired  = errors.New("该功能需要会员")
	ErrTrialAlreadyUsed = errors.New("免费试用已使用")
)
