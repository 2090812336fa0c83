package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/i18n"
	"github.com/studizen-api/internal/models"
	"github.com/studizen-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newSettingTestService(t *testing.T) *SettingService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSettingService(repository.NewSettingRepository(db))
}

func TestSettingConfigMergesDefaults(t *testing.T) {
	svc := newSettingTestService(t)

	defaults := map[string]interface{}{
		"site_name": "Studizen",
		"contact":   "support@studizen.id",
	}
	got, err := svc.GetConfig(defaults)
	if err != nil {
		t.Fatalf("get config failed: %v", err)
	}
	if got["site_name"] != "Studizen" {
		t.Fatalf("expected default site_name, got %v", got["site_name"])
	}

	if _, err := svc.Update(constants.SettingKeySiteConfig, map[string]interface{}{
		"site_name": "Studizen Kampus",
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err = svc.GetConfig(defaults)
	if err != nil {
		t.Fatalf("get config after update failed: %v", err)
	}
	if got["site_name"] != "Studizen Kampus" {
		t.Fatalf("stored value should override default, got %v", got["site_name"])
	}
	if got["contact"] != "support@studizen.id" {
		t.Fatalf("untouched default should survive, got %v", got["contact"])
	}
}

func TestSettingAppearanceDefaults(t *testing.T) {
	svc := newSettingTestService(t)

	appearance, err := svc.GetAppearance()
	if err != nil {
		t.Fatalf("get appearance failed: %v", err)
	}
	if appearance[constants.SettingFieldDefaultTheme] != constants.ThemeLight {
		t.Fatalf("default theme want light got %v", appearance[constants.SettingFieldDefaultTheme])
	}
	if appearance[constants.SettingFieldDefaultLocale] != i18n.DefaultLocale {
		t.Fatalf("default locale want %s got %v", i18n.DefaultLocale, appearance[constants.SettingFieldDefaultLocale])
	}
}

func TestSettingAppearanceNormalization(t *testing.T) {
	svc := newSettingTestService(t)

	if _, err := svc.Update(constants.SettingKeyAppearance, map[string]interface{}{
		constants.SettingFieldDefaultTheme:  " DARK ",
		constants.SettingFieldDefaultLocale: "zh",
	}); err != nil {
		t.Fatalf("update appearance failed: %v", err)
	}

	appearance, err := svc.GetAppearance()
	if err != nil {
		t.Fatalf("get appearance failed: %v", err)
	}
	if appearance[constants.SettingFieldDefaultTheme] != constants.ThemeDark {
		t.Fatalf("theme want dark got %v", appearance[constants.SettingFieldDefaultTheme])
	}
	if appearance[constants.SettingFieldDefaultLocale] != i18n.LocaleZH {
		t.Fatalf("locale want zh-CN got %v", appearance[constants.SettingFieldDefaultLocale])
	}

	// 非法主题回退 light
	if _, err := svc.Update(constants.SettingKeyAppearance, map[string]interface{}{
		constants.SettingFieldDefaultTheme: "neon",
	}); err != nil {
		t.Fatalf("update appearance failed: %v", err)
	}
	appearance, err = svc.GetAppearance()
	if err != nil {
		t.Fatalf("get appearance failed: %v", err)
	}
	if appearance[constants.SettingFieldDefaultTheme] != constants.ThemeLight {
		t.Fatalf("invalid theme should fall back to light, got %v", appearance[constants.SettingFieldDefaultTheme])
	}
}
