package app

import (
	"os"
	"strings"
	"time"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/logger"

	"go.uber.org/zap"
)

const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	switch strings.ToLower(strings.TrimSpace(opts.Mode)) {
	case ModeAPI:
		opts.Mode = ModeAPI
	case ModeWorker:
		opts.Mode = ModeWorker
	default:
		opts.Mode = ModeAll
	}
	return opts
}
