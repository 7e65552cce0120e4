// Package notices is the process-wide log sink for the ingestion
// pipeline. Every classified failure and informational event goes
// through here; recent entries are kept in memory so the admin API can
// surface them.
package notices

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Level classifies a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// maxEntries bounds the in-memory buffer; older notices are dropped.
const maxEntries = 200

// Notice is one recorded event.
type Notice struct {
	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

// Log records notices and mirrors them to the standard logger.
type Log struct {
	mu      sync.Mutex
	entries []Notice
}

// New returns an empty notice log.
func New() *Log {
	return &Log{}
}

// Infof records an informational notice.
func (l *Log) Infof(format string, args ...any) {
	l.record(LevelInfo, format, args...)
}

// Warnf records a warning notice.
func (l *Log) Warnf(format string, args ...any) {
	l.record(LevelWarning, format, args...)
}

// Errorf records an error notice.
func (l *Log) Errorf(format string, args ...any) {
	l.record(LevelError, format, args...)
}

func (l *Log) record(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", level, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Notice{Time: time.Now(), Level: level, Message: msg})
	if len(l.entries) > maxEntries {
		l.entries = l.entries[len(l.entries)-maxEntries:]
	}
}

// Recent returns up to n notices, newest last.
func (l *Log) Recent(n int) []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Notice, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}
