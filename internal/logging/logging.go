package logging

import (
	"io"
	"os"
	"strings"

	"blogcms/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger from cfg and returns it.
// The returned closer releases the rotating log file, if any.
func Setup(cfg config.Config) (*logrus.Logger, io.Closer) {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(ParseLevel(cfg.LogLevel))

	path := strings.TrimSpace(cfg.LogFile)
	if path == "" {
		logger.SetOutput(os.Stdout)
		return logger, nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return logger, rotator
}

// ParseLevel maps a textual level to logrus, falling back to info.
func ParseLevel(value string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(value))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
