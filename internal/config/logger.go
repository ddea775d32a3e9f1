package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "agro-advisor"

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	return loggerConfig(cfg).Build(zap.Fields(zap.String("service", serviceName)))
}

// loggerConfig: консоль для LOG_LEVEL=debug или LOG_FORMAT=console, иначе JSON с семплированием
func loggerConfig(cfg LogConfig) zap.Config {
	level := parseLogLevel(cfg.Level)
	console := level == zapcore.DebugLevel || strings.EqualFold(strings.TrimSpace(cfg.Format), "console")

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
	}

	if console {
		zc.Development = true
		zc.Encoding = "console"
		zc.Sampling = nil
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return zc
}

func parseLogLevel(level string) zapcore.Level {
	if l, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return zapcore.InfoLevel
}
