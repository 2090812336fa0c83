package public

import "github.com/studizen-api/internal/provider"

// Handler 前台/学生侧接口处理器入口
// 说明：该处理器仅用于学生端、游客侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
