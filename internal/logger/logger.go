// Package logger holds the process-wide zap logger of the gbgraph CLI.
package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/morozRed/gbgraph/internal/config"
)

// Logger is a global logger instance
var Logger *zap.Logger

// Init initializes the global logger. When a log file is configured,
// entries go to a rotating file instead of stderr.
func Init(env string, cfg config.LogConfig) error {
	var zc zap.Config

	if env == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.File == "" {
		Logger, err = zc.Build()
		return err
	}

	// No color codes in files.
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename: cfg.File,
		MaxSize:  cfg.MaxSize, // megabytes
		MaxAge:   cfg.MaxAge,  // days
	})
	var enc zapcore.Encoder
	if env == "production" {
		enc = zapcore.NewJSONEncoder(zc.EncoderConfig)
	} else {
		enc = zapcore.NewConsoleEncoder(zc.EncoderConfig)
	}
	Logger = zap.New(zapcore.NewCore(enc, sink, zc.Level),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Get returns the global logger instance
func Get() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}
