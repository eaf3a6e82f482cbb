// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Setup points log.Logger at the console, a rotating file when file is set,
// and any extra writers. Debug enables byte-level tracing.
func Setup(debug bool, file string, extra ...io.Writer) error {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}}

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    1,
			MaxBackups: 2,
		})
	}
	writers = append(writers, extra...)

	log.Logger = New(debug, io.MultiWriter(writers...))
	return nil
}

// New returns a logger writing to w with timestamps and callers. Debug
// enables trace level.
func New(debug bool, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.TraceLevel
		// the default global level stops at debug
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}
