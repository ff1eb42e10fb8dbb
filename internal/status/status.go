// Package status implements the setup status sink: an append-only, ordered
// log of human-readable progress lines that is later replayed to callers.
package status

import (
	"fmt"
	"strings"
	"sync"
)

// Log is an append-only ordered sequence of status lines.
// The zero value is ready to use.
type Log struct {
	mu    sync.Mutex
	lines []string
}

// New returns an empty Log.
func New() *Log { return &Log{} }

// Write appends a line.
func (l *Log) Write(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
}

// Writef appends a formatted line.
func (l *Log) Writef(format string, a ...any) { l.Write(fmt.Sprintf(format, a...)) }

// Lines returns a copy of the lines in write order.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of lines written so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

// Join returns the lines separated by "\n".
func (l *Log) Join() string { return Join(l.Lines()) }

// Join concatenates status lines with "\n".
func Join(lines []string) string { return strings.Join(lines, "\n") }

// FromArgs converts a setup_status argument into lines. It accepts a []string,
// a []any holding strings (decoded JSON) or a single string.
func FromArgs(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				s = fmt.Sprint(e)
			}
			out = append(out, s)
		}
		return out, true
	case string:
		return []string{t}, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}
