// Package status renders in-place progress for the terminal. It is pure
// display: the run log artifact is the durable record, this is not.
package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ANSI escape codes
const (
	clearLine  = "\033[2K"
	moveUp     = "\033[A"
	moveToCol0 = "\r"
	reset      = "\033[0m"
	bold       = "\033[1m"
	dim        = "\033[2m"
	green      = "\033[32m"
	red        = "\033[31m"
)

// Progress bar characters
const (
	barFilled = "█"
	barEmpty  = "░"
	barWidth  = 20
)

// Writer handles in-place status updates to the terminal.
type Writer struct {
	w            io.Writer
	mu           sync.Mutex
	linesWritten int
}

// New creates a status writer that outputs to stdout.
func New() *Writer {
	return &Writer{w: os.Stdout}
}

// NewWithWriter creates a status writer with a custom output.
func NewWithWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Clear erases any previously written status lines.
func (s *Writer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.linesWritten; i++ {
		fmt.Fprint(s.w, moveUp+clearLine)
	}
	fmt.Fprint(s.w, moveToCol0)
	s.linesWritten = 0
}

// Update clears previous status and writes new status lines.
func (s *Writer) Update(lines ...string) {
	s.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range lines {
		fmt.Fprintln(s.w, line)
	}
	s.linesWritten = len(lines)
}

func progressBar(completed, total int) string {
	if total == 0 {
		return strings.Repeat(barEmpty, barWidth)
	}

	filled := (completed * barWidth) / total
	if filled > barWidth {
		filled = barWidth
	}

	return green + strings.Repeat(barFilled, filled) + reset +
		dim + strings.Repeat(barEmpty, barWidth-filled) + reset
}

// Stage displays the currently executing stage.
func (s *Writer) Stage(position, total int, name string) {
	bar := progressBar(position-1, total)
	line := fmt.Sprintf("%s %s%d/%d%s %s%s%s", bar, dim, position, total, reset, bold, name, reset)
	s.Update(line)
}

// Complete shows completion status.
func (s *Writer) Complete(total int) {
	bar := progressBar(total, total)
	s.Update(
		fmt.Sprintf("%s %s%d/%d%s", bar, dim, total, total, reset),
		fmt.Sprintf("%s✓ Pipeline complete%s", green+bold, reset),
	)
}

// Error shows a failed stage. The error lines persist on screen.
func (s *Writer) Error(position, total int, name string, err error) {
	s.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()

	bar := progressBar(position-1, total)
	fmt.Fprintln(s.w, fmt.Sprintf("%s %s%d/%d%s", bar, dim, position, total, reset))
	fmt.Fprintln(s.w, fmt.Sprintf("%s✗ %s failed%s", red+bold, name, reset))
	fmt.Fprintln(s.w, fmt.Sprintf("%s%v%s", dim, err, reset))

	s.linesWritten = 0 // keep error output on screen
}

// Waiting shows watch-mode idle status between runs.
func (s *Writer) Waiting(total int) {
	bar := progressBar(total, total)
	s.Update(
		fmt.Sprintf("%s %s%d/%d%s", bar, dim, total, total, reset),
		fmt.Sprintf("%sWatching notebooks for changes...%s", dim, reset),
	)
}
