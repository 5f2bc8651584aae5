// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params describes where and how much to log.
type Params struct {
	// FilePath is the rotated log file. Empty logs to stderr.
	FilePath string
	Level    string
	JSON     bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup applies params to the standard logger. The returned closer releases
// the log file, if any.
func Setup(params Params) io.Closer {
	if params.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(GetLevel(params.Level))

	if params.FilePath == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}

	if !strings.HasSuffix(params.FilePath, ".log") {
		params.FilePath += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.FilePath,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		LocalTime:  true,
	}
	log.SetOutput(lumberJackLogger)
	return lumberJackLogger
}

// Mirror additionally copies log output to w.
func Mirror(w io.Writer) {
	log.SetOutput(io.MultiWriter(log.StandardLogger().Out, w))
}

// GetLevel maps a level name to logrus, defaulting to info.
func GetLevel(level string) log.Level {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}
