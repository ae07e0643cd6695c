package oneclick

import (
	"os"

	"github.com/mattn/go-colorable"
	"github.com/rusq/dlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logger interface that is used throughout the package.
type Logger interface {
	Print(...any)
	Printf(string, ...any)
	Println(...any)
	Debug(...any)
	Debugf(string, ...any)
	Debugln(...any)
}

// Log is the global logger, replace it in the downstream, if needed, or go
// with the default one.
var Log Logger = dlog.New(os.Stderr, "", 0, false)

// newDebugLogger returns the colourful console logger used to trace the login
// flow when debug is enabled.
func newDebugLogger() *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(colorable.NewColorableStdout()),
		zapcore.DebugLevel,
	))
}
