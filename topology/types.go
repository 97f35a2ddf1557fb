package topology

import (
	"errors"
	"fmt"
)

// Sentinel errors for topology construction.
var (
	// ErrDegenerate indicates a grid that has no cells or a row with no columns.
	ErrDegenerate = errors.New("topology: degenerate grid")
	// ErrUnknownShape indicates an unrecognized shape selector.
	ErrUnknownShape = errors.New("topology: unknown grid shape")
)

// Shape selects the row profile and the adjacency rule of a grid.
type Shape int

const (
	// Square is a size×size grid with 4-directional adjacency.
	Square Shape = iota
	// Triangle has r+1 columns in row r.
	Triangle
	// Hexagonal has a diamond row profile and 6-directional adjacency.
	Hexagonal
)

var shapeNames = [...]string{
	Square:    "Square",
	Triangle:  "Triangle",
	Hexagonal: "Hexagonal",
}

// String returns the selector name used by callers and persisted records.
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape maps "Square", "Triangle" or "Hexagonal" to a Shape.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return Shape(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(shapeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	return []byte(shapeNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Position identifies a cell by row and column. Equality is structural.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the position as "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns p shifted by the offset d = {dRow, dCol}.
func (p Position) Add(d [2]int) Position {
	return Position{Row: p.Row + d[0], Col: p.Col + d[1]}
}

// Manhattan returns |p.Row-q.Row| + |p.Col-q.Col|.
func Manhattan(p, q Position) int {
	dr := p.Row - q.Row
	if dr < 0 {
		dr = -dr
	}
	dc := p.Col - q.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}
