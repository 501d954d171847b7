package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// L 全局结构化日志器
// 服务、后台任务统一从这里取 logger，按模块打 component 字段
var L zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	L = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init 根据运行环境重建全局 logger
// pretty=true 时输出人类可读格式，仅用于本地开发
func Init(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	L = logger.Level(lvl).With().Timestamp().Logger()
}

// With 返回带 component 字段的子 logger
func With(component string) zerolog.Logger {
	return L.With().Str("component", component).Logger()
}
