package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level  string    `yaml:"level"`
	Format string    `yaml:"format"` // "text" or "json"
	Output io.Writer `yaml:"-"`
}

var (
	mu sync.Mutex
	lg *logrus.Logger
)

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()
	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stdout)
	}
	l.SetLevel(parseLevel(cfg.Level))
	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	}
	return l
}

// Init replaces the package logger.
func Init(cfg Config) *logrus.Logger {
	l := New(cfg)
	mu.Lock()
	lg = l
	mu.Unlock()
	return l
}

// L returns the package logger, creating an info-level one on first use.
func L() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if lg == nil {
		lg = New(Config{Level: "info"})
	}
	return lg
}

func parseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
