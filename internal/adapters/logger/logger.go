// Package logger implements ports.Logger over log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/sitepipe/internal/ui/style"
)

var _ ports.Logger = (*Logger)(nil)

// messager matches zerr errors, which report their own message without the chain.
type messager interface {
	Message() string
}

// metadataer matches zerr errors carrying key/value context.
type metadataer interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput changes the destination, keeping the current format.
// A nil writer selects stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty records.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// rebuild must be called with mu held or before the logger is shared.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its full cause chain. Nil errors are ignored.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}
	l.logger.Error(FormatError(err))
}

// FormatError renders an error chain as
//
//	Error: top message
//	       key=value
//
//	  Caused by:
//	    → cause
//
// Joined errors are rendered one after another.
func FormatError(err error) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			if e != nil {
				parts = append(parts, FormatError(e))
			}
		}
		return strings.Join(parts, "\n\n")
	}

	var lines []string
	for i, link := range chain(err) {
		msgLines := strings.Split(link.message, "\n")
		head, indent := "    "+style.Arrow+" ", "      "
		if i == 0 {
			head, indent = "Error: ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		lines = append(lines, head+msgLines[0])
		for _, cont := range msgLines[1:] {
			lines = append(lines, indent+cont)
		}
		for _, k := range slices.Sorted(maps.Keys(link.meta)) {
			lines = append(lines, fmt.Sprintf("%s%s=%v", indent, k, link.meta[k]))
		}
	}
	return strings.Join(lines, "\n")
}

type chainLink struct {
	message string
	meta    map[string]any
}

// chain walks zerr links and stops at the first plain error.
func chain(err error) []chainLink {
	var links []chainLink
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			links = append(links, chainLink{message: current.Error()})
			break
		}

		link := chainLink{message: m.Message()}
		if md, ok := current.(metadataer); ok {
			link.meta = md.Metadata()
		}
		links = append(links, link)
		current = errors.Unwrap(current)
	}
	return links
}
