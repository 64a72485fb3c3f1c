package nuclino

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
)

// Logger is the minimal structured logging interface consumed by the client.
// Arguments after the message are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger is a console Logger built on the standard log package.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{
		logger: log.New(os.Stderr, "nuclino ", log.LstdFlags|log.Lmicroseconds),
	}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) { l.log("DEBUG", msg, keysAndValues) }
func (l *SimpleLogger) Info(msg string, keysAndValues ...any)  { l.log("INFO", msg, keysAndValues) }
func (l *SimpleLogger) Warn(msg string, keysAndValues ...any)  { l.log("WARN", msg, keysAndValues) }
func (l *SimpleLogger) Error(msg string, keysAndValues ...any) { l.log("ERROR", msg, keysAndValues) }

func (l *SimpleLogger) log(level, msg string, keysAndValues []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Print(b.String())
}

// DebugConfig controls which request lifecycle events are logged. Logging is
// entirely opt-in: with Enabled false (the default) the client emits nothing.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRateGate  bool
	LogErrors    bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a config with all event classes on (but Enabled
// false) and a random request ID generator.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRateGate:  true,
		LogErrors:    true,
		RequestIDGen: defaultRequestID,
	}
}

func defaultRequestID() string {
	return fmt.Sprintf("req_%08x", rand.Uint32())
}
