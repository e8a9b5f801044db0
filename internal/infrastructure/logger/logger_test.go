package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"console format", &Config{Level: "debug", Format: "console", Output: "stdout", TimeFormat: "15:04:05"}},
		{"json format", &Config{Level: "info", Format: "json", Output: "stderr", TimeFormat: "15:04:05"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	log, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestContextHelpers(t *testing.T) {
	base := zap.NewNop()
	ctx := context.Background()

	assert.Equal(t, "", GetRequestID(ctx))
	assert.Equal(t, "", GetOperator(ctx))

	ctx, log := WithRequestID(ctx, base, "req-1")
	assert.NotNil(t, log)
	assert.Equal(t, "req-1", GetRequestID(ctx))

	ctx, _ = WithOperator(ctx, log, "alice")
	assert.Equal(t, "alice", GetOperator(ctx))

	// Logger round-trips through the context
	assert.NotNil(t, FromContext(ctx))
}

func TestFromContextMissingLogger(t *testing.T) {
	// Falls back to a no-op logger instead of nil
	log := FromContext(context.Background())
	require.NotNil(t, log)
	log.Info("must not panic")
}
