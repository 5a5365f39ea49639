// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"xchain-backend/internal/config"
)

// Setup applies cfg to the standard logrus logger and returns it.
func Setup(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	Configure(log, cfg)
	return log
}

// Configure applies level, format and output to log.
func Configure(log *logrus.Logger, cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetOutput(Output(cfg))
}

// Output returns stdout, or stdout plus a rotating file when cfg.File is set.
func Output(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  false,
	}
	return io.MultiWriter(os.Stdout, rotating)
}
