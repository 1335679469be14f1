package split

import "github.com/seuros/gopher-sass/src/scss"

// DefaultMaxDepth bounds include and import nesting.
const DefaultMaxDepth = 256

// Importer loads the stylesheet named by an @import.
type Importer interface {
	// Import resolves path relative to the file doing the import and returns
	// the canonical identity of the target together with its parsed form.
	Import(path, from string) (canonical string, doc *scss.Document, err error)
}

// canonicalizer is implemented by importers that can tell the canonical
// identity of the root document, so a file importing itself is a cycle.
type canonicalizer interface {
	Canonical(file string) string
}

// Config holds configuration for a partition
type Config struct {
	// Env is the starting scope. It is never modified; the partition works
	// in a child of it.
	Env *Env

	// Importer loads imported stylesheets. Without one, any import of a
	// Sass file fails.
	Importer Importer

	// MaxDepth limits include and import nesting
	MaxDepth int

	// Logging holds logging configuration
	Logging *LoggingConfig

	// Observability holds telemetry configuration
	Observability *ObservabilityConfig
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:      DefaultMaxDepth,
		Logging:       DefaultLoggingConfig(),
		Observability: DefaultObservabilityConfig(),
	}
}

// Option configures a partition
type Option func(*Config)

// WithEnv sets the starting scope.
func WithEnv(env *Env) Option {
	return func(c *Config) { c.Env = env }
}

// WithImporter sets the importer used for @import.
func WithImporter(imp Importer) Option {
	return func(c *Config) { c.Importer = imp }
}

// WithMaxDepth sets the nesting limit. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		if depth > 0 {
			c.MaxDepth = depth
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l == nil {
			l = &NoOpLogger{}
		}
		level := LogLevelDebug
		if c.Logging != nil {
			level = c.Logging.Level
		}
		c.Logging = &LoggingConfig{Logger: l, Level: level}
	}
}

// WithObservability replaces the telemetry configuration.
func WithObservability(o *ObservabilityConfig) Option {
	return func(c *Config) {
		if o != nil {
			c.Observability = o
		}
	}
}

func newConfig(opts []Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logging == nil || cfg.Logging.Logger == nil {
		cfg.Logging = DefaultLoggingConfig()
	}
	if cfg.Observability == nil {
		cfg.Observability = &ObservabilityConfig{}
	}
	return cfg
}
