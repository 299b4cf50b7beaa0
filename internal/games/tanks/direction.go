package tanks

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tankduel/internal/core"
)

// Direction is one of the four axis-aligned headings.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every heading in movement order.
var Directions = [4]Direction{Up, Down, Left, Right}

// heading describes everything that varies with a direction.
// Muzzle offsets are in half vehicle extents from the top-left corner.
type heading struct {
	name       string
	dx, dy     int
	muzzleX    int
	muzzleY    int
	horizontal bool
}

var headings = [4]heading{
	Up:    {name: "up", dx: 0, dy: -1, muzzleX: 1, muzzleY: 0},
	Down:  {name: "down", dx: 0, dy: 1, muzzleX: 1, muzzleY: 2},
	Left:  {name: "left", dx: -1, dy: 0, muzzleX: 0, muzzleY: 1, horizontal: true},
	Right: {name: "right", dx: 1, dy: 0, muzzleX: 2, muzzleY: 1, horizontal: true},
}

func (d Direction) heading() heading {
	if !d.Valid() {
		panic(fmt.Sprintf("tanks: invalid direction %d", uint8(d)))
	}
	return headings[d]
}

func (d Direction) bit() DirSet {
	if !d.Valid() {
		panic(fmt.Sprintf("tanks: invalid direction %d", uint8(d)))
	}
	return 1 << d
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d <= Right
}

// String returns the lower-case direction name.
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return headings[d].name
}

// Vector returns the unit step along the direction.
func (d Direction) Vector() (dx, dy int) {
	h := d.heading()
	return h.dx, h.dy
}

// Horizontal reports whether the direction travels along the x axis.
func (d Direction) Horizontal() bool {
	return d.heading().horizontal
}

// Muzzle returns the projectile spawn point for a vehicle occupying r.
func (d Direction) Muzzle(r core.Rect) (x, y int) {
	h := d.heading()
	return r.X + r.W*h.muzzleX/2, r.Y + r.H*h.muzzleY/2
}

// Extent returns a projectile's width and height when travelling along d.
// length runs along the travel axis.
func (d Direction) Extent(length, thickness int) (w, h int) {
	if d.Horizontal() {
		return length, thickness
	}
	return thickness, length
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, headings[d].name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("tanks: unknown direction %q", s)
}

// DirSet is a set of directions, one bit per heading.
// It models both movement intent and collision blocking.
type DirSet uint8

const allDirs DirSet = 1<<4 - 1

// DirSetOf builds a set from the given directions.
func DirSetOf(dirs ...Direction) DirSet {
	var s DirSet
	for _, d := range dirs {
		s = s.With(d)
	}
	return s
}

// Has reports whether d is in the set.
func (s DirSet) Has(d Direction) bool {
	return s&d.bit() != 0
}

// HasAll reports whether every direction of other is in the set.
func (s DirSet) HasAll(other DirSet) bool {
	return s&other == other
}

// With returns the set plus d.
func (s DirSet) With(d Direction) DirSet {
	return s | d.bit()
}

// Empty reports whether no direction is set.
func (s DirSet) Empty() bool {
	return s == 0
}

// Valid reports whether only the four direction bits are used.
func (s DirSet) Valid() bool {
	return s&^allDirs == 0
}

// Slice returns the members in movement order.
func (s DirSet) Slice() []Direction {
	var out []Direction
	for _, d := range Directions {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String returns members joined by '+', or "none".
func (s DirSet) String() string {
	dirs := s.Slice()
	if len(dirs) == 0 {
		return "none"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, "+")
}

// ParseDirSet parses the String form.
func ParseDirSet(s string) (DirSet, error) {
	if s == "" || s == "none" {
		return 0, nil
	}
	var set DirSet
	for _, part := range strings.Split(s, "+") {
		d, err := ParseDirection(part)
		if err != nil {
			return 0, err
		}
		set = set.With(d)
	}
	return set, nil
}
