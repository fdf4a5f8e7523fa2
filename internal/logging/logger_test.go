package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"cap113/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LoggingConfig
		level  zapcore.Level
		hasErr bool
	}{
		{name: "console info", cfg: config.LoggingConfig{Level: "info", Format: "console"}, level: zapcore.InfoLevel},
		{name: "json debug", cfg: config.LoggingConfig{Level: "debug", Format: "json"}, level: zapcore.DebugLevel},
		{name: "bad level", cfg: config.LoggingConfig{Level: "loud"}, hasErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.cfg)
			if tc.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.level))
			assert.False(t, logger.Core().Enabled(tc.level-1))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview([]byte("abc"), 5))
	assert.Equal(t, "ab...", Preview([]byte("abcdef"), 2))
}
