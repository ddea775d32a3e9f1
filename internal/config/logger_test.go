package config

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zapcore.Level
	}{
		{"debug lowercase", "debug", zapcore.DebugLevel},
		{"debug uppercase", "DEBUG", zapcore.DebugLevel},
		{"info lowercase", "info", zapcore.InfoLevel},
		{"info uppercase", "INFO", zapcore.InfoLevel},
		{"warn lowercase", "warn", zapcore.WarnLevel},
		{"warning", "warning", zapcore.WarnLevel},
		{"error lowercase", "error", zapcore.ErrorLevel},
		{"error uppercase", "ERROR", zapcore.ErrorLevel},
		{"invalid string", "invalid", zapcore.InfoLevel},
		{"empty string", "", zapcore.InfoLevel},
		{"padded", " warn ", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLogLevel(tt.level)
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLoggerConfig(t *testing.T) {
	tests := []struct {
		name         string
		cfg          LogConfig
		wantEncoding string
		wantLevel    zapcore.Level
		wantSampling bool
	}{
		{"production default", LogConfig{Level: "info", Format: "json"}, "json", zapcore.InfoLevel, true},
		{"debug switches to console", LogConfig{Level: "debug", Format: "json"}, "console", zapcore.DebugLevel, false},
		{"console format", LogConfig{Level: "warn", Format: " Console "}, "console", zapcore.WarnLevel, false},
		{"unknown level", LogConfig{Level: "verbose"}, "json", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loggerConfig(tt.cfg)
			if got.Encoding != tt.wantEncoding {
				t.Errorf("Encoding = %q, want %q", got.Encoding, tt.wantEncoding)
			}
			if got.Level.Level() != tt.wantLevel {
				t.Errorf("Level = %v, want %v", got.Level.Level(), tt.wantLevel)
			}
			if (got.Sampling != nil) != tt.wantSampling {
				t.Errorf("Sampling = %v, want sampling %v", got.Sampling, tt.wantSampling)
			}
			if got.EncoderConfig.TimeKey != "timestamp" {
				t.Errorf("TimeKey = %q, want timestamp", got.EncoderConfig.TimeKey)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{
			name:    "debug level",
			cfg:     LogConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "info level",
			cfg:     LogConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "warn level",
			cfg:     LogConfig{Level: "warn"},
			wantErr: false,
		},
		{
			name:    "error level",
			cfg:     LogConfig{Level: "error"},
			wantErr: false,
		},
		{
			name:    "console format",
			cfg:     LogConfig{Level: "info", Format: "console"},
			wantErr: false,
		},
		{
			name:    "default level (empty)",
			cfg:     LogConfig{Level: ""},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("NewLogger() returned nil logger")
			}
			if logger != nil {
				logger.Sync()
			}
		})
	}
}
