// ABOUTME: Structured logger construction for the CLI, TUI, and mock backend
// ABOUTME: Writes JSON lines to a daily rotated file so the terminal stays free for the UI
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string
	Dev   bool
	// Dir receives rotated log files. Empty means stderr.
	Dir string
	// Name prefixes the log file, e.g. "leadgen" -> leadgen.20260101.log.
	Name string
}

// Logger wraps the zap logger together with the writer it owns.
type Logger struct {
	*zap.Logger
	closer io.Closer
}

// Close flushes buffered entries and releases the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger from opts.
func New(opts Options) (*Logger, error) {
	lvl := levelFromString(opts.Level)

	var (
		sink   zapcore.WriteSyncer
		closer io.Closer
	)
	if opts.Dir == "" {
		sink = zapcore.Lock(os.Stderr)
	} else {
		rl, err := newRotator(opts.Dir, opts.Name)
		if err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(rl)
		closer = rl
	}

	var encoder zapcore.Encoder
	if opts.Dev {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, sink, lvl)
	zl := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{Logger: zl, closer: closer}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func newRotator(dir, name string) (*rotatelogs.RotateLogs, error) {
	if name == "" {
		name = "leadgen"
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rl, err := rotatelogs.New(
		filepath.Join(dir, name+".%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, name+".log")),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return rl, nil
}
