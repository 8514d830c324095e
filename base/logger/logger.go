package logger

import (
	"time"

	"go.uber.org/zap"
)

// InitLogger 初始化全局日志，main启动时调用一次
func InitLogger(level, projectName, logPath string, maxAge, rotationTime time.Duration, rotationSize uint32, sentryDsn string) {
	_ = level // 控制台核固定debug级别，文件核按info/error分流
	initZap(projectName, logPath, maxAge, rotationTime, rotationSize, sentryDsn)
}

func Debugf(format string, args ...interface{}) {
	zap.S().Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	zap.S().Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	zap.S().Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	zap.S().Errorf(format, args...)
}

func Debug(args ...interface{}) {
	zap.S().Debug(args...)
}

func Info(args ...interface{}) {
	zap.S().Info(args...)
}

func Warn(args ...interface{}) {
	zap.S().Warn(args...)
}

func Error(args ...interface{}) {
	zap.S().Error(args...)
}

// Sync 退出前刷新缓冲
func Sync() {
	_ = zap.L().Sync()
}
