package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/dotnet-shim/errors"
)

// NewLogger builds the harness logger writing to out. The auto format picks a
// console encoder on a terminal and JSON otherwise.
func NewLogger(cfg LogConfig, out *os.File) (*zap.Logger, error) {
	tty := term.IsTerminal(int(out.Fd()))
	return newLogger(cfg, zapcore.Lock(out), tty)
}

func newLogger(cfg LogConfig, ws zapcore.WriteSyncer, tty bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}

	var enc zapcore.Encoder
	switch {
	case cfg.Format == "console" || (cfg.Format != "json" && tty):
		ec := zap.NewDevelopmentEncoderConfig()
		if tty {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(ec)
	default:
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	return zap.New(zapcore.NewCore(enc, ws, level)), nil
}
