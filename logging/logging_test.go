package logging

import (
	"testing"

	"github.com/milk9111/protagonist/config"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Logging
		debug bool
		want  zapcore.Level
	}{
		{name: "console_info", cfg: config.Logging{Level: "info"}, want: zapcore.InfoLevel},
		{name: "json_warn", cfg: config.Logging{Level: "warn", Format: "json"}, want: zapcore.WarnLevel},
		{name: "bad_level_falls_back", cfg: config.Logging{Level: "loud"}, want: zapcore.InfoLevel},
		{name: "debug_flag_wins", cfg: config.Logging{Level: "error"}, debug: true, want: zapcore.DebugLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.cfg, tc.debug)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if !logger.Core().Enabled(tc.want) {
				t.Fatalf("level %v not enabled", tc.want)
			}
			if tc.want > zapcore.DebugLevel && logger.Core().Enabled(tc.want-1) {
				t.Fatalf("level %v should be disabled", tc.want-1)
			}
		})
	}
}
