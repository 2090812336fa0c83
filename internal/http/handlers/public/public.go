package public

import (
	"time"

	"github.com/studizen-api/internal/cache"
	"github.com/studizen-api/internal/http/response"
	"github.com/studizen-api/internal/i18n"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig 获取全局配置
func (h *Handler) GetConfig(c *gin.Context) {
	// 默认配置
	defaults := map[string]interface{}{
		"site_name": "Studizen",
		"languages": i18n.Supported(),
	}

	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data, err := h.SettingService.GetConfig(defaults)
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}

	appearance, err := h.SettingService.GetAppearance()
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}
	data["appearance"] = appearance

	if h.CaptchaService != nil {
		data["captcha"] = h.CaptchaService.PublicSetting()
	}

	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}

// GetAppearance 获取外观设置（默认主题与语言）
func (h *Handler) GetAppearance(c *gin.Context) {
	appearance, err := h.SettingService.GetAppearance()
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}
	response.Success(c, appearance)
}

// GetLocales 获取支持的语言列表
func (h *Handler) GetLocales(c *gin.Context) {
	response.Success(c, gin.H{
		"locales": i18n.Supported(),
		"default": i18n.DefaultLocale,
	})
}
