package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Logger 全局日志实例
	Logger zerolog.Logger
)

// Init 初始化全局日志
func Init(level string) {
	// 解析日志级别
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// 配置输出
	var output io.Writer = os.Stdout

	// 开发环境下使用可读的控制台输出
	if os.Getenv("APP_ENV") == "dev" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	Logger = zerolog.New(output).
		With().
		Timestamp().
		Logger()

	Logger.Info().
		Str("level", logLevel.String()).
		Msg("日志初始化完成")
}

// WithComponent 返回带组件标识的日志实例
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
