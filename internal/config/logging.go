package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging points the standard logrus logger at a rotating log file.
// With console set the log is also copied to stderr. The returned closer
// flushes and closes the file.
func SetupLogging(cfg Config, console bool) io.Closer {
	file := &lumberjack.Logger{
		Filename:   cfg.LogPath(),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	var out io.Writer = file
	if console {
		out = io.MultiWriter(file, os.Stderr)
	}
	logrus.SetOutput(out)
	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return file
}
