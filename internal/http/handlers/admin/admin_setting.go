package admin

import (
	"github.com/studizen-api/internal/cache"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 与前台 GetConfig 共用的公开配置缓存键
const publicConfigCacheKey = "public:config"

// GetSettings 获取设置
func (h *Handler) GetSettings(c *gin.Context) {
	key := c.DefaultQuery("key", constants.SettingKeySiteConfig)

	value, err := h.SettingService.GetByKey(key)
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}
	if value == nil {
		response.Success(c, gin.H{})
		return
	}

	response.Success(c, value)
}

// UpdateSettingsRequest 更新设置请求
type UpdateSettingsRequest struct {
	Key   string                 `json:"key" binding:"required"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// UpdateSettings 更新设置
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	value, err := h.SettingService.Update(req.Key, req.Value)
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_save_failed", err)
		return
	}

	// 站点配置与外观都会进入公开配置缓存
	_ = cache.Del(c.Request.Context(), publicConfigCacheKey)
	response.Success(c, value)
}
