package common

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type Logger interface {
	Log(format string, args ...interface{})
}

// logger is a glorious logger implementation.
type logger struct {
	mu   sync.Mutex
	name string
	out  io.Writer
}

func NewLogger(name string) *logger {
	return &logger{
		name: name,
		out:  os.Stdout,
	}
}

// NewLoggerTo writes log lines to the given writer instead of stdout.
func NewLoggerTo(name string, out io.Writer) *logger {
	return &logger{
		name: name,
		out:  out,
	}
}

func (l *logger) Log(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] %s\n", l.name, fmt.Sprintf(format, args...))
}
