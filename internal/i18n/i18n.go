package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的界面语言
const (
	LocaleEN = "en-US"
	LocaleID = "id-ID"
	LocaleZH = "zh-CN"
)

// DefaultLocale 默认界面语言
const DefaultLocale = LocaleID

// Supported 返回支持的语言列表
func Supported() []string {
	return []string{LocaleEN, LocaleID, LocaleZH}
}

// Normalize 归一化语言标识，未知语言回退默认值
func Normalize(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "en"):
		return LocaleEN
	case strings.HasPrefix(l, "id"), strings.HasPrefix(l, "in"):
		return LocaleID
	case strings.HasPrefix(l, "zh"):
		return LocaleZH
	default:
		return DefaultLocale
	}
}

// ResolveLocale 从请求解析界面语言
// 优先级：query 参数 locale > Accept-Language 头 > 默认值
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if q := strings.TrimSpace(c.Query("locale")); q != "" {
		return Normalize(q)
	}
	header := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if header == "" {
		return DefaultLocale
	}
	first := header
	if idx := strings.IndexAny(header, ",;"); idx > 0 {
		first = header[:idx]
	}
	return Normalize(first)
}

// T 查询翻译文本；未命中时返回 key 本身
func T(locale, key string) string {
	normalized := Normalize(locale)
	if table, ok := messages[normalized]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	if table, ok := messages[DefaultLocale]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	return key
}

// Sprintf 查询翻译文本并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	text := T(locale, key)
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
