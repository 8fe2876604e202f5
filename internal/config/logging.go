package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogging 初始化日志：带完整时间戳的文本格式，配置了 LOG_FILE 时同时追加写入文件。
// 返回的 Closer 用于关闭日志文件，未配置文件时为 nil。
func InitLogging(logger *logrus.Logger, cfg *Config) (io.Closer, error) {
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(cfg.LogLevel)

	if cfg.LogFile == "" {
		return nil, nil
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, logFile))
	return logFile, nil
}
