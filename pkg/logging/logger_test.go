package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/plumeblog/plume/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LoggingConfig
		expect zapcore.Level
	}{
		{
			name:   "json info",
			cfg:    config.LoggingConfig{Level: "INFO", Format: "json"},
			expect: zapcore.InfoLevel,
		},
		{
			name:   "text debug",
			cfg:    config.LoggingConfig{Level: "DEBUG", Format: "text"},
			expect: zapcore.DebugLevel,
		},
		{
			name:   "unknown level falls back to info",
			cfg:    config.LoggingConfig{Level: "LOUD", Format: "json"},
			expect: zapcore.InfoLevel,
		},
	}

	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
			if !Logger.Core().Enabled(tt.expect) {
				t.Errorf("Expected level %v to be enabled", tt.expect)
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	Logger = nil
	if GetLogger() == nil {
		t.Fatal("GetLogger should never return nil")
	}
}

func TestWithComponent(t *testing.T) {
	logger := WithComponent("feed")
	if logger == nil {
		t.Fatal("WithComponent returned nil")
	}
}
