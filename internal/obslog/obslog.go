// Package obslog is the structured-logging wrapper used throughout the
// core. It follows the teacher's "[Component] message" convention (see
// ingester/network_poller.go, ingester/service.go) but adds key/value
// fields, since the Cell Supervisor's tick loop needs machine-parseable
// transition records more than the teacher's block-ingestion log lines
// do.
package obslog

import (
	"fmt"
	"log"
	"strings"
)

// Logger is a component-scoped logger. The zero value is not usable;
// construct one with New.
type Logger struct {
	component string
}

// New returns a Logger tagged with the given component name, e.g.
// "sequencer.lift1" or "supervisor".
func New(component string) *Logger {
	return &Logger{component: component}
}

// Info logs an informational line with optional key/value pairs.
func (l *Logger) Info(msg string, kv ...any) {
	l.print("INFO", msg, kv...)
}

// Warn logs a warning line.
func (l *Logger) Warn(msg string, kv ...any) {
	l.print("WARN", msg, kv...)
}

// Error logs an error line.
func (l *Logger) Error(msg string, kv ...any) {
	l.print("ERROR", msg, kv...)
}

func (l *Logger) print(level, msg string, kv ...any) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s", l.component, level, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	log.Println(b.String())
}
