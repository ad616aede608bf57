// Package logger provides verbose logging for the docchat CLI.
// When verbose mode is enabled via the --verbose flag, messages are
// printed to stderr. Independently, SetFile routes every message to a
// rotating JSON log file, which is where the full-screen chat logs since
// it owns the terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	file    *zap.Logger
	rotator *lumberjack.Logger
)

// FileOptions configures the rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetFile starts writing every message, verbose or not, to a rotating
// JSON log file. An empty path disables the file sink.
func SetFile(opts FileOptions) {
	mu.Lock()
	defer mu.Unlock()

	closeFileLocked()
	if opts.Path == "" {
		return
	}

	rotator = &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.DebugLevel,
	)
	file = zap.New(core)
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

func closeFileLocked() error {
	if file == nil {
		return nil
	}
	_ = file.Sync()
	err := rotator.Close()
	file, rotator = nil, nil
	return err
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(zapcore.DebugLevel, "[DEBUG] ", format, args)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
	if file != nil {
		file.Info(name, zap.String("section", name))
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(zapcore.InfoLevel, "[INFO] ", format, args)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write(zapcore.WarnLevel, "[WARN] ", format, args)
}

// Error prints an error message if verbose mode is enabled.
func Error(format string, args ...any) {
	write(zapcore.ErrorLevel, "[ERROR] ", format, args)
}

// write holds the exclusive lock so concurrent callers never interleave
// on a shared writer.
func write(level zapcore.Level, prefix, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose && file == nil {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if verbose {
		fmt.Fprint(output, prefix+msg+"\n")
	}
	if file != nil {
		if ce := file.Check(level, msg); ce != nil {
			ce.Write()
		}
	}
}
