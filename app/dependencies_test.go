package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/authgate/config"
	"github.com/upb/authgate/verifier"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// syncCountingCore counts Sync calls on the wrapped core
type syncCountingCore struct {
	zapcore.Core
	syncs int
}

func (c *syncCountingCore) Sync() error {
	c.syncs++
	return c.Core.Sync()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Auth: config.AuthConfig{
			JWTSecret:  "test_secret",
			Algorithms: []string{"HS256"},
		},
		Observability: config.ObservabilityConfig{LogLevel: "debug", LogFormat: "console"},
	}
}

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization", func(t *testing.T) {
		deps, err := NewDependencies(testConfig(t), zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, deps)

		assert.NotNil(t, deps.Config)
		assert.NotNil(t, deps.Logger)
		assert.NotNil(t, deps.Verifier)
		assert.NotNil(t, deps.AuthMiddleware)
		assert.Equal(t, []string{"HS256"}, deps.Verifier.Algorithms())

		assert.NoError(t, deps.Close())
	})

	t.Run("missing secret fails startup", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Auth.JWTSecret = ""

		deps, err := NewDependencies(cfg, zaptest.NewLogger(t))
		assert.ErrorIs(t, err, verifier.ErrMissingSecret)
		assert.Nil(t, deps)
	})

	t.Run("unsupported algorithm fails startup", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Auth.Algorithms = []string{"RS256"}

		deps, err := NewDependencies(cfg, zaptest.NewLogger(t))
		assert.ErrorIs(t, err, verifier.ErrUnsupportedAlgorithm)
		assert.Nil(t, deps)
	})
}

func TestCloseLeavesLoggerToCaller(t *testing.T) {
	inner, logs := observer.New(zapcore.InfoLevel)
	core := &syncCountingCore{Core: inner}

	deps, err := NewDependencies(testConfig(t), zap.New(core))
	require.NoError(t, err)

	require.NoError(t, deps.Close())
	assert.Zero(t, core.syncs)
	assert.Equal(t, 1, logs.FilterMessage("shutting down dependencies").Len())
}
