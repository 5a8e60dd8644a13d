package main

import (
    "fmt"
    "os"
    "sync"
    "time"
)

// EventLogger appends timestamped event lines to a file: pin read failures,
// connection teardowns and the like.  With an empty path it writes to stderr
// only, which is what the tests and desktop builds use.
type EventLogger struct {
    filePath string
    mu       sync.Mutex
}

// NewEventLogger creates a logger writing to filePath, or stderr when the
// path is empty.
func NewEventLogger(filePath string) *EventLogger {
    return &EventLogger{filePath: filePath}
}

// Log writes a single event with timestamp.  Logging failures are reported on
// stderr and otherwise ignored; the event log must never take the loop down.
func (el *EventLogger) Log(format string, args ...any) {
    el.mu.Lock()
    defer el.mu.Unlock()
    line := fmt.Sprintf("%s - %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
    if el.filePath == "" {
        fmt.Fprint(os.Stderr, line)
        return
    }
    f, err := os.OpenFile(el.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
    if err != nil {
        fmt.Fprintf(os.Stderr, "event log: %v\n", err)
        return
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        fmt.Fprintf(os.Stderr, "event log write: %v\n", err)
    }
}
