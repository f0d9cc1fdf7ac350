package monitor

import "strings"

// Batch collects the alert lines of one cycle so they go out as a single
// message.
type Batch struct {
	lines []string
}

func (b *Batch) Reset() { b.lines = b.lines[:0] }

func (b *Batch) Add(line string) { b.lines = append(b.lines, line) }

func (b *Batch) Len() int { return len(b.lines) }

func (b *Batch) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Compose joins every line into the message body.
func (b *Batch) Compose() string { return strings.Join(b.lines, "\n") }
