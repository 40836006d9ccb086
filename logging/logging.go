// Package logging builds the debug logger. The terminal is in raw mode while
// the wheel runs, so records only ever go to a rotating file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/prize-wheel/config"
)

const timeFmt = "2006/01/02 15:04:05.000"

// Logger wraps the zap logger with the file sink it owns
type Logger struct {
	*zap.Logger
	sink *lumberjack.Logger
}

// New returns a file-backed logger, or a no-op logger when logging is disabled
func New(cfg config.LogConfig) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{Logger: zap.NewNop()}, nil
	}

	lv := zap.NewAtomicLevel()
	if err := lv.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg()), zapcore.AddSync(sink), lv)

	return &Logger{
		Logger: zap.New(core, zap.AddCaller()),
		sink:   sink,
	}, nil
}

// Close flushes buffered records and releases the file
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

// Rotate forces the current file aside and starts a new one
func (l *Logger) Rotate() error {
	if l.sink == nil {
		return nil
	}
	return l.sink.Rotate()
}

func encCfg() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(timeFmt))
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}
