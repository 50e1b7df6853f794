package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const header = `${time_rfc3339_nano} ${level} ${prefix} ${short_file}:${line}`

var std = log.New("deconflict")

// Options selects the level and destination of a logger. An empty File
// logs to stdout.
type Options struct {
	Prefix string
	Level  string
	File   string
}

func New(opts Options) *log.Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "deconflict"
	}
	lg := log.New(prefix)
	lg.SetHeader(header)
	lg.SetLevel(ParseLevel(opts.Level))

	if opts.File != "" {
		lg.SetOutput(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    32, // MB
			MaxBackups: 3,
			MaxAge:     14,
		})
	} else {
		lg.SetOutput(os.Stdout)
	}
	return lg
}

func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "", "info":
		return log.INFO
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		std.Warnf("%s: invalid log level, using info", level)
		return log.INFO
	}
}

// Or returns lg, or the shared default logger if lg is nil.
func Or(lg *log.Logger) *log.Logger {
	if lg == nil {
		return std
	}
	return lg
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *log.Logger {
	lg := log.New("test")
	lg.SetOutput(io.Discard)
	lg.SetLevel(log.OFF)
	return lg
}
