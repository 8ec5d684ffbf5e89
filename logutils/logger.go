package logutils

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogSettings defines the logging configuration of the application.
type LogSettings struct {
	Enabled         bool   `json:"Enabled"`
	Level           string `json:"Level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	File            string `json:"File"`
	MaxSize         int    `json:"MaxSize" validate:"gte=0"`
	MaxBackups      int    `json:"MaxBackups" validate:"gte=0"`
	CompressRotated bool   `json:"CompressRotated"`
}

var (
	_zapLogger     *zap.Logger
	_zapLoggerLock sync.RWMutex
)

// ZapLogger returns the logger installed by OverrideRootLogWithConfig.
// Before configuration it is a no-op logger.
func ZapLogger() *zap.Logger {
	_zapLoggerLock.RLock()
	defer _zapLoggerLock.RUnlock()
	if _zapLogger == nil {
		return zap.NewNop()
	}
	return _zapLogger
}

func setZapLogger(logger *zap.Logger) {
	_zapLoggerLock.Lock()
	defer _zapLoggerLock.Unlock()
	_zapLogger = logger
}

// OverrideRootLogWithConfig builds a logger from settings and installs it as the root logger.
func OverrideRootLogWithConfig(settings LogSettings) error {
	logger, err := NewZapLoggerWithSettings(settings)
	if err != nil {
		return err
	}
	setZapLogger(logger)
	return nil
}

// NewZapLoggerWithSettings builds a logger without installing it.
// Console output goes to stderr, file output is JSON with rotation.
func NewZapLoggerWithSettings(settings LogSettings) (*zap.Logger, error) {
	if !settings.Enabled {
		return zap.NewNop(), nil
	}

	level, err := parseLevel(settings.Level)
	if err != nil {
		return nil, err
	}

	var core zapcore.Core
	if settings.File != "" {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		syncer := ZapSyncerWithRotation(FileOptions{
			Filename:   settings.File,
			MaxSize:    settings.MaxSize,
			MaxBackups: settings.MaxBackups,
			Compress:   settings.CompressRotated,
		})
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), syncer, level)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	}

	return zap.New(core, zap.AddCaller()), nil
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}
