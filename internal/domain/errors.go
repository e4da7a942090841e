package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrClientInput       = errors.New("invalid input")
	ErrStorage           = errors.New("storage failure")
	ErrCircularReference = errors.New("circular recipe reference")
)

// Warning is a non-fatal diagnostic produced by lenient parsing.
// Line is 1-based; zero when the warning is not tied to a line.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return w.Message
}
