package log

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Infof takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Infof(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.InfoHeader, data, v...)
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Debugf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.DebugHeader, data, v...)
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Warnf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.WarnHeader, data, v...)
}

// Errorf takes a pointer subLogger struct, string and interface formats sends to StageLogEvent
func Errorf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.ErrorHeader, data, v...)
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

// enabled checks if the log level is enabled
func (l *logFields) enabled(header string) bool {
	switch header {
	case l.logger.InfoHeader:
		return l.info
	case l.logger.WarnHeader:
		return l.warn
	case l.logger.ErrorHeader:
		return l.error
	case l.logger.DebugHeader:
		return l.debug
	}
	return false
}

// stagef stages a log event
func (l *logFields) stagef(header, data string, v ...any) {
	if l == nil || !l.enabled(header) {
		return
	}
	l.write(header, fmt.Sprintf(data, v...))
}

func (l *logFields) write(header, data string) {
	if l.output == nil {
		return
	}

	var b strings.Builder
	b.WriteString(header)
	if l.logger.TimestampFormat != "" {
		b.WriteString(time.Now().Format(l.logger.TimestampFormat))
	}
	if l.logger.ShowLogSystemName {
		b.WriteString(l.logger.Spacer)
		b.WriteString(l.name)
	}
	b.WriteString(l.logger.Spacer)
	b.WriteString(data)
	if !strings.HasSuffix(data, "\n") {
		b.WriteByte('\n')
	}
	_, err := l.output.Write([]byte(b.String()))
	displayError(err)
}
