// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupParams mirrors config.LogConfig.
type SetupParams struct {
	Level      string
	FormatJSON bool
	FileName   string
	ToStdout   bool
}

// Setup sets the level, format and output of the standard logrus logger.
// With a file name, output goes to a rotated file (and optionally stdout).
func Setup(p SetupParams) {
	if p.FormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(Level(p.Level))
	logrus.SetOutput(Output(p))
}

// Output builds the writer Setup installs.
func Output(p SetupParams) io.Writer {
	if p.FileName == "" {
		return os.Stdout
	}
	name := p.FileName
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}
	file := &lumberjack.Logger{
		Filename:   name,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		Compress:   true,
	}
	if p.ToStdout {
		return io.MultiWriter(os.Stdout, file)
	}
	return file
}

// Level parses a level name, defaulting to info.
func Level(level string) logrus.Level {
	l, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}
