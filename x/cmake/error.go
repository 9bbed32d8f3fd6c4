package cmake

import (
	"bytes"
	"fmt"
	"strings"
)

// tailSize bounds the output kept for diagnostics.
const tailSize = 16 << 10

// RunError is a failed cmake or ctest invocation.
type RunError struct {
	Cmd    string
	Args   []string
	Err    error
	Output string // last part of the combined output
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Cmd, strings.Join(e.Args, " "), e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Diagnostic returns the captured output, or the error text when the command
// printed nothing.
func (e *RunError) Diagnostic() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return out
	}
	return e.Error()
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.limit {
		t.buf.Reset()
		t.truncated = true
		p = p[len(p)-t.limit:]
	} else if over := t.buf.Len() + len(p) - t.limit; over > 0 {
		t.buf.Next(over)
		t.truncated = true
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) String() string {
	if t.truncated {
		return "...\n" + t.buf.String()
	}
	return t.buf.String()
}
