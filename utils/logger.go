package utils

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// LogLevel enumerates severity tiers.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLogLevel maps a config string onto a LogLevel, ignoring case and
// defaulting to INFO.
func ParseLogLevel(s string) LogLevel {
	s = strings.TrimSpace(s)
	for i, n := range levelNames {
		if strings.EqualFold(n, s) {
			return LogLevel(i)
		}
	}
	return INFO
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	case FATAL:
		return zerolog.FatalLevel
	}
	return zerolog.InfoLevel
}

// Logger is a concurrency-safe, levelled logger shared by every stage.
type Logger struct {
	mu   sync.Mutex
	zl   zerolog.Logger
	file *os.File
}

var (
	globalLogger *Logger
	logOnce      sync.Once
)

// InitLogger creates the singleton logger. Call once at startup.
// console receives human-readable output; pass nil when the terminal is
// owned by the dashboard so only the log file is written.
func InitLogger(minLevel LogLevel, logFilePath string, console io.Writer) *Logger {
	logOnce.Do(func() {
		globalLogger = newLogger(minLevel, logFilePath, console)
	})
	return globalLogger
}

// newLogger builds a Logger writing to console and/or the log file. A log
// file that cannot be opened is reported on console and skipped.
func newLogger(minLevel LogLevel, logFilePath string, console io.Writer) *Logger {
	var writers []io.Writer
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: "2006-01-02 15:04:05.000",
		})
	}

	var f *os.File
	if logFilePath != "" {
		var err error
		f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			writers = append(writers, f)
		} else if console != nil {
			wl := zerolog.New(zerolog.ConsoleWriter{Out: console})
			wl.Warn().Msgf("could not open log file %s: %v", logFilePath, err)
		}
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = zerolog.MultiLevelWriter(writers...)
	}
	return &Logger{
		zl:   zerolog.New(out).Level(minLevel.zerolog()).With().Timestamp().Logger(),
		file: f,
	}
}

// L returns the global logger, initialising a stdout logger at DEBUG if
// InitLogger has not been called.
func L() *Logger {
	return InitLogger(DEBUG, "", os.Stdout)
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func (l *Logger) log(lvl LogLevel, format string, args ...any) {
	l.mu.Lock()
	l.zl.WithLevel(lvl.zerolog()).Msgf(format, args...)
	l.mu.Unlock()

	if lvl == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) Debug(f string, a ...any) { l.log(DEBUG, f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.log(INFO, f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.log(WARN, f, a...) }
func (l *Logger) Error(f string, a ...any) { l.log(ERROR, f, a...) }
func (l *Logger) Fatal(f string, a ...any) { l.log(FATAL, f, a...) }
