// Package maps provides the obstacle layouts a match is played on: the
// layout table format, the built-in catalogue and a directory loader.
package maps

import (
	"errors"

	"github.com/vovakirdan/tankduel/internal/core"
)

var (
	// ErrUnknownMap is returned when no layout is registered under a name.
	ErrUnknownMap = errors.New("maps: unknown map")
	// ErrInvalidLayout is returned for malformed layout documents.
	ErrInvalidLayout = errors.New("maps: invalid layout")
)

// Layout is a row-major table of obstacle flags.
type Layout struct {
	ID       string
	Name     string
	Columns  int
	Flags    []bool
	Metadata map[string]string
	FilePath string // Empty for built-in layouts
}

// Rows returns the number of table rows.
func (l Layout) Rows() int {
	if l.Columns == 0 {
		return 0
	}
	return (len(l.Flags) + l.Columns - 1) / l.Columns
}

// Count returns the number of obstacles the layout produces.
func (l Layout) Count() int {
	n := 0
	for _, f := range l.Flags {
		if f {
			n++
		}
	}
	return n
}

// Bricks places one size×size obstacle per set flag.
// Flag i lands at ((i mod columns)*size, ((i+1) div columns)*size), so a
// brick in the last column is drawn one row lower than its table row.
func (l Layout) Bricks(size int) []core.Rect {
	bricks := make([]core.Rect, 0, l.Count())
	for i, set := range l.Flags {
		if !set {
			continue
		}
		x := (i % l.Columns) * size
		y := ((i + 1) / l.Columns) * size
		bricks = append(bricks, core.NewRect(x, y, size, size))
	}
	return bricks
}
