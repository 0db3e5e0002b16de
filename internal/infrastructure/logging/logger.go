package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Init()

	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)

	Sync() error
}

type LoggerConfig struct {
	// FilePath is a directory; an empty value logs to stderr only.
	FilePath string
	Encoding string
	Level    string
	Logger   string
}

// Level names accepted in LoggerConfig.Level. Anything else means info.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

func (c *LoggerConfig) level() string {
	switch l := strings.ToLower(c.Level); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return l
	}
	return LevelInfo
}

// rotatingFile is the daily log file under FilePath, or nil when logging
// goes to stderr.
func (c *LoggerConfig) rotatingFile() io.Writer {
	if c.FilePath == "" {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(c.FilePath, time.Now().Format("2006-01-02")+".log"),
		MaxSize:    1,
		MaxAge:     20,
		LocalTime:  true,
		MaxBackups: 5,
		Compress:   true,
	}
}

func NewLogger(cfg *LoggerConfig) (Logger, error) {
	switch cfg.Logger {
	case "", "zap":
		return newZapLogger(cfg), nil
	case "zerolog":
		return newZeroLogger(cfg), nil
	}

	return nil, fmt.Errorf("logger %q not supported: supported loggers: [zap, zerolog]", cfg.Logger)
}
