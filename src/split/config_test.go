package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Nil(t, cfg.Env)
	assert.Nil(t, cfg.Importer)
	assert.IsType(t, &NoOpLogger{}, cfg.Logging.Logger)
	assert.Equal(t, LogLevelOff, cfg.Logging.Level)
	assert.True(t, cfg.Observability.EnableTracing)
}

func TestOptions(t *testing.T) {
	env := NewEnv(nil)
	imp := memImporter{}
	logger := NewConsoleLogger(LogLevelInfo, nil)
	obs := &ObservabilityConfig{}

	cfg := newConfig([]Option{
		WithEnv(env),
		WithImporter(imp),
		WithMaxDepth(8),
		WithLogger(logger),
		WithObservability(obs),
	})
	assert.Same(t, env, cfg.Env)
	assert.Equal(t, imp, cfg.Importer)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Same(t, logger, cfg.Logging.Logger)
	assert.Same(t, obs, cfg.Observability)
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	cfg := newConfig([]Option{
		WithMaxDepth(0),
		WithLogger(nil),
		WithObservability(nil),
	})
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.IsType(t, &NoOpLogger{}, cfg.Logging.Logger)
	assert.NotNil(t, cfg.Observability)
}
