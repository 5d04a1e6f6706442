package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level orders log output from most to least verbose
type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warn:
		return "Warn"
	case Error:
		return "Error"
	default:
		return "Invalid"
	}
}

// ParseLevel accepts the level names case insensitively
func ParseLevel(s string) (l Level, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		l = Debug
	case "info":
		l = Info
	case "warn", "warning":
		l = Warn
	case "error":
		l = Error
	default:
		err = fmt.Errorf("unknown verbosity level %q, want one of Debug, Info, Warn, Error", s)
	}
	return
}

var (
	verbosity = int32(Info)
	logger    = log.New(os.Stderr, "", log.LstdFlags)
)

func SetVerbosity(l Level) { atomic.StoreInt32(&verbosity, int32(l)) }

func Verbosity() Level { return Level(atomic.LoadInt32(&verbosity)) }

// SetLogOutput redirects all levels, mainly for tests
func SetLogOutput(w io.Writer) { logger.SetOutput(w) }

func logf(l Level, format string, args ...interface{}) {
	if l < Verbosity() {
		return
	}
	logger.Printf("[%s] %s", strings.ToUpper(l.String()), fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) { logf(Debug, format, args...) }
func Infof(format string, args ...interface{})  { logf(Info, format, args...) }
func Warnf(format string, args ...interface{})  { logf(Warn, format, args...) }
func Errorf(format string, args ...interface{}) { logf(Error, format, args...) }
