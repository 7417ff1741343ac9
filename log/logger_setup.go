package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thrasher-corp/fxdx/common/convert"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	errSubloggerConfigIsNil       = errors.New("sublogger config is nil")
	errUnhandledOutputWriter      = errors.New("unhandled output writer")
	errLogConfigIsNil             = errors.New("log config is nil")
	errEmptyLoggerName            = errors.New("cannot have empty logger name")
	errSubLoggerAlreadyRegistered = errors.New("sub logger already registered")
	errFileLoggingNotConfigured   = errors.New("file output requested but file logging is not configured")
)

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	outputs := strings.Split(s.Output, "|")
	writers := make([]io.Writer, 0, len(outputs))
	for _, output := range outputs {
		switch strings.ToLower(output) {
		case "stdout", "console":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		case "file":
			if !fileLoggingConfiguredCorrectly {
				return nil, errFileLoggingNotConfigured
			}
			writers = append(writers, globalLogFile)
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, output)
		}
	}
	return newMultiWriter(writers...)
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: convert.BoolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  "INFO|WARN|ERROR",
			Output: "console",
		},
		LoggerFileConfig: &loggerFileConfig{
			FileName: "log.txt",
			Rotate:   convert.BoolPtr(false),
			MaxSize:  0,
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: convert.BoolPtr(false),
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

func configureSubLogger(subLogger, levels string, output io.Writer) error {
	logPtr, found := subLoggers[subLogger]
	if !found {
		return fmt.Errorf("sub logger %v not found", subLogger)
	}

	logPtr.output = output
	logPtr.Levels = splitLevel(levels)
	return nil
}

// SetupSubLoggers configure all sub loggers with provided configuration values
func SetupSubLoggers(s []SubLoggerConfig) error {
	mu.Lock()
	defer mu.Unlock()
	for x := range s {
		output, err := getWriters(&s[x])
		if err != nil {
			return err
		}
		err = configureSubLogger(strings.ToUpper(s[x].Name), s[x].Level, output)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetupGlobalLogger setup the global loggers with the provided config values.
// A rotating file writer is opened when a file name and log directory are
// supplied.
func SetupGlobalLogger(c *Config, logDir string) error {
	if c == nil {
		return errLogConfigIsNil
	}
	mu.Lock()
	defer mu.Unlock()

	if globalLogFile != nil {
		_ = globalLogFile.Close()
		globalLogFile = nil
	}
	fileLoggingConfiguredCorrectly = false
	if c.LoggerFileConfig != nil && c.LoggerFileConfig.FileName != "" && logDir != "" {
		globalLogFile = newRotatingFile(filepath.Join(logDir, c.LoggerFileConfig.FileName), c.LoggerFileConfig)
		fileLoggingConfiguredCorrectly = true
	}

	globalLogConfig = c
	for _, sl := range subLoggers {
		output, err := getWriters(&c.SubLoggerConfig)
		if err != nil {
			return err
		}
		sl.output = output
		sl.Levels = splitLevel(c.Level)
	}

	logger = newLogger(c)
	return nil
}

// CloseLogger closes the rotating log file if one is open
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogFile == nil {
		return nil
	}
	err := globalLogFile.Close()
	globalLogFile = nil
	fileLoggingConfiguredCorrectly = false
	return err
}

func newRotatingFile(path string, c *loggerFileConfig) *lumberjack.Logger {
	maxSize := c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	l := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: c.MaxBackups,
	}
	if c.Rotate == nil || !*c.Rotate {
		// lumberjack always rotates at MaxSize, an effectively unbounded size
		// keeps a single file
		l.MaxSize = 1 << 20
	}
	return l
}

func newLogger(c *Config) Logger {
	var showName bool
	if c.AdvancedSettings.ShowLogSystemName != nil {
		showName = *c.AdvancedSettings.ShowLogSystemName
	}
	return Logger{
		ShowLogSystemName: showName,
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
	}
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch level := enabledLevels[x]; level {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	name := strings.ToUpper(subLogger)
	temp := &SubLogger{
		name:   name,
		output: os.Stdout,
		Levels: splitLevel("INFO|WARN|DEBUG|ERROR"),
	}
	subLoggers[name] = temp
	return temp
}

// register all loggers at package init()
func init() {
	defaults := GenDefaultSettings()
	globalLogConfig = &defaults
	logger = newLogger(globalLogConfig)

	Global = registerNewSubLogger("LOG")
	ConfigMgr = registerNewSubLogger("CONFIG")
	RequestSys = registerNewSubLogger("REQUESTER")
	ExchangeSys = registerNewSubLogger("EXCHANGE")
}
