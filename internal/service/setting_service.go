package service

import (
	"strings"

	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/i18n"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"
)

// SettingService 设置业务服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetConfig 获取站点配置（合并默认值）
func (s *SettingService) GetConfig(defaults map[string]interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	for k, v := range defaults {
		data[k] = v
	}

	setting, err := s.repo.GetByKey(constants.SettingKeySiteConfig)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return data, nil
	}

	for k, v := range setting.ValueJSON {
		data[k] = v
	}
	return data, nil
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 设置值
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	normalized := normalizeSettingValueByKey(key, value)

	setting, err := s.repo.Upsert(key, normalized)
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// GetAppearance 外观设置（默认主题 + 默认语言），带兜底默认值
func (s *SettingService) GetAppearance() (models.JSON, error) {
	value, err := s.GetByKey(constants.SettingKeyAppearance)
	if err != nil {
		return nil, err
	}
	result := models.JSON{
		constants.SettingFieldDefaultTheme:  constants.ThemeLight,
		constants.SettingFieldDefaultLocale: i18n.DefaultLocale,
	}
	for k, v := range value {
		result[k] = v
	}
	return result, nil
}

// normalizeSettingValueByKey 按键归一化设置内容，丢弃非法字段值
func normalizeSettingValueByKey(key string, value map[string]interface{}) models.JSON {
	normalized := models.JSON{}
	for k, v := range value {
		normalized[k] = v
	}
	if key != constants.SettingKeyAppearance {
		return normalized
	}

	if raw, ok := normalized[constants.SettingFieldDefaultTheme]; ok {
		theme, _ := raw.(string)
		theme = strings.ToLower(strings.TrimSpace(theme))
		if theme != constants.ThemeLight && theme != constants.ThemeDark {
			theme = constants.ThemeLight
		}
		normalized[constants.SettingFieldDefaultTheme] = theme
	}
	if raw, ok := normalized[constants.SettingFieldDefaultLocale]; ok {
		locale, _ := raw.(string)
		normalized[constants.SettingFieldDefaultLocale] = i18n.Normalize(locale)
	}
	return normalized
}
