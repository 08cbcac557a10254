package config

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the logger c describes. Without File it writes to
// fallback; with File it writes to a rotating file, which the returned
// Closer closes.
func (c LogConfig) NewLogger(fallback io.Writer) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	l := logrus.New()
	l.SetLevel(level)

	switch c.Format {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("%w: log format %q", ErrInvalid, c.Format)
	}

	if c.File == "" {
		l.SetOutput(fallback)
		return l, nopCloser{}, nil
	}
	rotating := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB, // megabytes
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays, // days
		Compress:   c.Compress,
	}
	l.SetOutput(rotating)
	return l, rotating, nil
}

// withoutOutput is c with the file dropped, for validation without side effects.
func (c LogConfig) withoutOutput() LogConfig {
	c.File = ""
	return c
}
