package split

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LogLevelDebug logs every partition decision
	LogLevelDebug LogLevel = iota
	// LogLevelInfo logs one summary line per partition
	LogLevelInfo
	// LogLevelWarn logs warning messages that don't stop execution
	LogLevelWarn
	// LogLevelError logs only error conditions
	LogLevelError
	// LogLevelOff disables all logging
	LogLevelOff
)

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown names map to info.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	case "OFF", "NONE":
		return LogLevelOff
	default:
		return LogLevelInfo
	}
}

// LogCategory tags a message with the part of the splitter that produced it
type LogCategory string

const (
	// LogCategoryPartition for node keep/drop decisions
	LogCategoryPartition LogCategory = "partition"
	// LogCategoryMixin for include resolution and expansion
	LogCategoryMixin LogCategory = "mixin"
	// LogCategoryImport for import resolution
	LogCategoryImport LogCategory = "import"
)

// Logger defines the interface for pluggable logging.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})
	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})
	// Warn logs a warning message with optional key-value pairs
	Warn(msg string, keysAndValues ...interface{})
	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
	// IsDebugEnabled returns true if debug logging is enabled
	IsDebugEnabled() bool
	// IsInfoEnabled returns true if info logging is enabled
	IsInfoEnabled() bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Logger is the pluggable logger implementation
	Logger Logger
	// Level is the minimum level the default console logger writes
	Level LogLevel
}

// DefaultLoggingConfig returns a silent logging configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Logger: &NoOpLogger{},
		Level:  LogLevelOff,
	}
}

// NewConsoleLoggingConfig creates a configuration logging to stderr
func NewConsoleLoggingConfig(level LogLevel) *LoggingConfig {
	return &LoggingConfig{
		Logger: NewConsoleLogger(level, os.Stderr),
		Level:  level,
	}
}

// NoOpLogger is a logger that does nothing (default behavior)
type NoOpLogger struct{}

func (l *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (l *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (l *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (l *NoOpLogger) IsDebugEnabled() bool                           { return false }
func (l *NoOpLogger) IsInfoEnabled() bool                            { return false }

// ConsoleLogger writes leveled, timestamped lines to a writer
type ConsoleLogger struct {
	level      LogLevel
	out        *log.Logger
	mu         sync.RWMutex
	timeFormat string
}

// NewConsoleLogger creates a console logger with the specified level
func NewConsoleLogger(level LogLevel, w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		level:      level,
		out:        log.New(w, "", 0),
		timeFormat: "2006-01-02 15:04:05.000",
	}
}

// SetLevel updates the log level
func (c *ConsoleLogger) SetLevel(level LogLevel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

// SetTimeFormat sets the time format for log messages
func (c *ConsoleLogger) SetTimeFormat(format string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeFormat = format
}

func (c *ConsoleLogger) formatMessage(level LogLevel, msg string, keysAndValues ...interface{}) string {
	c.mu.RLock()
	timeFormat := c.timeFormat
	c.mu.RUnlock()

	timestamp := time.Now().Format(timeFormat)
	formatted := fmt.Sprintf("[%s] %s [gopher-sass] %s", timestamp, level.String(), msg)

	if len(keysAndValues) > 0 {
		var pairs []string
		for i := 0; i+1 < len(keysAndValues); i += 2 {
			pairs = append(pairs, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
		}
		if len(pairs) > 0 {
			formatted += " | " + strings.Join(pairs, " ")
		}
	}
	return formatted
}

func (c *ConsoleLogger) enabled(level LogLevel) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level <= level
}

func (c *ConsoleLogger) log(level LogLevel, msg string, keysAndValues ...interface{}) {
	if c.enabled(level) {
		c.out.Println(c.formatMessage(level, msg, keysAndValues...))
	}
}

func (c *ConsoleLogger) Debug(msg string, keysAndValues ...interface{}) {
	c.log(LogLevelDebug, msg, keysAndValues...)
}

func (c *ConsoleLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log(LogLevelInfo, msg, keysAndValues...)
}

func (c *ConsoleLogger) Warn(msg string, keysAndValues ...interface{}) {
	c.log(LogLevelWarn, msg, keysAndValues...)
}

func (c *ConsoleLogger) Error(msg string, keysAndValues ...interface{}) {
	c.log(LogLevelError, msg, keysAndValues...)
}

func (c *ConsoleLogger) IsDebugEnabled() bool { return c.enabled(LogLevelDebug) }

func (c *ConsoleLogger) IsInfoEnabled() bool { return c.enabled(LogLevelInfo) }

// LogEntry is one line written by JSONLogger.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Category  LogCategory            `json:"category,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// JSONLogger writes one JSON object per line. A "category" key is lifted
// out of the fields into the entry.
type JSONLogger struct {
	level LogLevel
	out   io.Writer
	mu    sync.Mutex
}

// NewJSONLogger creates a JSON logger with the specified level
func NewJSONLogger(level LogLevel, w io.Writer) *JSONLogger {
	return &JSONLogger{level: level, out: w}
}

func (l *JSONLogger) log(level LogLevel, msg string, keysAndValues ...interface{}) {
	if level < l.level {
		return
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
	}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if c, ok := keysAndValues[i+1].(LogCategory); ok && key == "category" {
			entry.Category = c
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]interface{})
		}
		entry.Fields[key] = jsonValue(keysAndValues[i+1])
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","message":"failed to marshal log entry: %v"}`, err))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(append(data, '\n'))
}

// jsonValue renders values without a natural JSON form through their
// String or Error method.
func jsonValue(v interface{}) interface{} {
	switch v := v.(type) {
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

func (l *JSONLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelDebug, msg, keysAndValues...)
}

func (l *JSONLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelInfo, msg, keysAndValues...)
}

func (l *JSONLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelWarn, msg, keysAndValues...)
}

func (l *JSONLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LogLevelError, msg, keysAndValues...)
}

func (l *JSONLogger) IsDebugEnabled() bool { return l.level <= LogLevelDebug }

func (l *JSONLogger) IsInfoEnabled() bool { return l.level <= LogLevelInfo }
