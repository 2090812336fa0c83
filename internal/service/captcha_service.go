package service

import (
	"strings"
	"sync"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 图片验证码服务
// 按场景开关决定登录/发码接口是否需要人机校验
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu                  sync.Mutex
	imageStore          base64Captcha.Store
	imageStoreMaxStore  int
	imageStoreExpireSec int
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 验证码功能是否开启
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// SceneEnabled 指定场景是否需要验证码
func (s *CaptchaService) SceneEnabled(scene string) bool {
	if !s.Enabled() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(scene)) {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	case constants.CaptchaSceneRegisterSendCode:
		return s.cfg.Scenes.RegisterSendCode
	case constants.CaptchaSceneResetSendCode:
		return s.cfg.Scenes.ResetSendCode
	default:
		return false
	}
}

// PublicSetting 公开可下发配置（前端据此决定是否弹出验证码）
func (s *CaptchaService) PublicSetting() map[string]interface{} {
	return map[string]interface{}{
		"enabled": s.Enabled(),
		"scenes": map[string]bool{
			constants.CaptchaSceneLogin:            s.SceneEnabled(constants.CaptchaSceneLogin),
			constants.CaptchaSceneRegisterSendCode: s.SceneEnabled(constants.CaptchaSceneRegisterSendCode),
			constants.CaptchaSceneResetSendCode:    s.SceneEnabled(constants.CaptchaSceneResetSendCode),
		},
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaConfigInvalid
	}
	image := s.resolveImageConfig()

	store := s.ensureImageStore(image)
	driver := base64Captcha.NewDriverString(
		image.Height,
		image.Width,
		image.NoiseCount,
		image.ShowLine,
		image.Length,
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, store)
	id, b64s, _, genErr := captcha.Generate()
	if genErr != nil {
		return nil, genErr
	}

	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码；场景未启用时直接放行
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.SceneEnabled(scene) {
		return nil
	}

	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	store := s.ensureImageStore(s.resolveImageConfig())
	if !store.Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) resolveImageConfig() config.CaptchaImageConfig {
	image := s.cfg.Image
	if image.Length < 4 || image.Length > 8 {
		image.Length = 5
	}
	if image.Width <= 0 {
		image.Width = 240
	}
	if image.Height <= 0 {
		image.Height = 80
	}
	if image.ExpireSeconds <= 0 {
		image.ExpireSeconds = 300
	}
	if image.MaxStore <= 0 {
		image.MaxStore = 10240
	}
	return image
}

func (s *CaptchaService) ensureImageStore(image config.CaptchaImageConfig) base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore != nil && s.imageStoreMaxStore == image.MaxStore && s.imageStoreExpireSec == image.ExpireSeconds {
		return s.imageStore
	}
	s.imageStore = base64Captcha.NewMemoryStore(image.MaxStore, time.Duration(image.ExpireSeconds)*time.Second)
	s.imageStoreMaxStore = image.MaxStore
	s.imageStoreExpireSec = image.ExpireSeconds
	return s.imageStore
}
