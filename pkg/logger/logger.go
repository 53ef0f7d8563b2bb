// Package logger holds the process-wide zerolog logger.
//
// Call Init once in main, then Get from anywhere else. Levels from most to
// least verbose: trace, debug, info, warn, error.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum level. Unknown or empty values mean "info".
	Level string
	// Pretty switches to coloured console output. Production emits JSON.
	Pretty bool
	// Service, when set, is attached to every line as "service".
	Service string
	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	mu          sync.Mutex
	instance    zerolog.Logger
	initialized bool
)

// Init builds the singleton. Only the first call after start (or after Reset)
// has an effect; later calls return the existing logger.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	instance = ctx.Logger()
	initialized = true
	return instance
}

// Get returns the singleton, or a no-op logger when Init was never called.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !initialized {
		return zerolog.Nop()
	}
	return instance
}

// Reset drops the singleton so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	instance = zerolog.Logger{}
	initialized = false
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
