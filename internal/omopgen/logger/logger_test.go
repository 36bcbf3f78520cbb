package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Development: true}))
	assert.True(t, L().Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "error"}))
	assert.False(t, L().Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestL_LazyInit(t *testing.T) {
	logger = nil
	assert.NotNil(t, L())

	SetForTest(zap.NewNop().Sugar())
	assert.False(t, L().Desugar().Core().Enabled(zapcore.ErrorLevel))
}
