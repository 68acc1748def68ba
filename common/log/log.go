package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

const (
	logMaxAge       = 7 * 24 * time.Hour
	logRotationTime = 24 * time.Hour
)

// 未调用 InitLog 之前使用默认 logger，引擎和测试代码可以直接打日志
var logger = newLogger(os.Stdout, "riichi", log.InfoLevel)

func newLogger(w io.Writer, prefix string, level log.Level) *log.Logger {
	l := log.New(w)
	l.SetPrefix(prefix)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetLevel(level)
	return l
}

func InitLog(appName string, logLevel string) {
	// 使用 os.Stdout 而不是 os.Stderr，避免控制台把所有日志标红
	logger = newLogger(os.Stdout, appName, parseLevel(logLevel))

	// 启用调用者信息（显示文件名和行号）
	logger.SetReportCaller(true)
}

// InitFile 日志按天切分写入 dir/<appName>-YYYYMMDD.log，同时保留控制台输出
func InitFile(dir, appName string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}
	pattern := filepath.Join(dir, fmt.Sprintf("%s-%%Y%%m%%d.log", appName))
	writer, err := rotatelogs.New(
		pattern,
		rotatelogs.WithLinkName(filepath.Join(dir, appName+".log")),
		rotatelogs.WithMaxAge(logMaxAge),
		rotatelogs.WithRotationTime(logRotationTime),
	)
	if err != nil {
		return fmt.Errorf("创建日志轮转失败: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
	return nil
}

// SetOutput 重定向日志输出（模拟对局时写文件，测试时丢弃）
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel 动态调整日志级别，配置热更新时使用
func SetLevel(logLevel string) {
	logger.SetLevel(parseLevel(logLevel))
}

func parseLevel(logLevel string) log.Level {
	// 默认为 info 级别
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Fatal(format string, args ...any) {
	if len(args) == 0 {
		logger.Fatalf(format)
	} else {
		logger.Fatalf(format, args...)
	}
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		logger.Infof(format)
	} else {
		logger.Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		logger.Warnf(format)
	} else {
		logger.Warnf(format, args...)
	}
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		logger.Errorf(format)
	} else {
		logger.Errorf(format, args...)
	}
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		logger.Debugf(format)
	} else {
		logger.Debugf(format, args...)
	}
}
