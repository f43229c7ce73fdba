package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
)

// New builds a JSON logrus logger writing to stdout and a rotated file under cfg.Dir.
func New(cfg config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	if err := os.MkdirAll(cfg.Logging.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs folder failed: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Logging.Dir, "app.log"),
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
		Compress:   true,
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	return log, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
