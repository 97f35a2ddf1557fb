package topology

import "fmt"

var (
	squareOffsets = [][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	hexOffsets    = [][2]int{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}}
)

// Topology is an immutable (shape, size) pair with precomputed row widths.
// The zero value is not usable; build one with New.
type Topology struct {
	Shape   Shape
	Size    int
	widths  []int
	offsets [][2]int
}

// New validates shape and size and precomputes the per-row widths.
// Returns ErrDegenerate if size ≤ 0 or a row would have no columns,
// ErrUnknownShape for an out-of-range shape.
// Complexity: O(size).
func New(shape Shape, size int) (Topology, error) {
	if size <= 0 {
		return Topology{}, fmt.Errorf("%w: size %d", ErrDegenerate, size)
	}
	var offsets [][2]int
	switch shape {
	case Square, Triangle:
		offsets = squareOffsets
	case Hexagonal:
		offsets = hexOffsets
	default:
		return Topology{}, fmt.Errorf("%w: %d", ErrUnknownShape, int(shape))
	}

	widths := make([]int, size)
	for r := 0; r < size; r++ {
		widths[r] = rowWidth(shape, size, r)
		if widths[r] <= 0 {
			return Topology{}, fmt.Errorf("%w: row %d has width %d", ErrDegenerate, r, widths[r])
		}
	}

	return Topology{Shape: shape, Size: size, widths: widths, offsets: offsets}, nil
}

// rowWidth is the per-shape row formula.
func rowWidth(shape Shape, size, r int) int {
	switch shape {
	case Triangle:
		return r + 1
	case Hexagonal:
		mid := size / 2
		if r <= mid {
			return mid + r + 1
		}
		return size + mid - r
	default:
		return size
	}
}

// Rows returns the number of rows (always Size).
func (t Topology) Rows() int { return len(t.widths) }

// RowWidth returns the number of columns in row r, or 0 if r is out of range.
func (t Topology) RowWidth(r int) int {
	if r < 0 || r >= len(t.widths) {
		return 0
	}
	return t.widths[r]
}

// CellCount returns the total number of cells.
func (t Topology) CellCount() int {
	n := 0
	for _, w := range t.widths {
		n += w
	}
	return n
}

// InBounds reports whether p indexes a cell, checking the column against
// the width of p's own row.
func (t Topology) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < len(t.widths) && p.Col >= 0 && p.Col < t.widths[p.Row]
}

// Offsets returns the neighbor offsets as {dRow, dCol} pairs, in the order
// Neighbors applies them.
func (t Topology) Offsets() [][2]int {
	return t.offsets
}

// Neighbors returns the in-bounds cells adjacent to p, in offset order.
// Offsets landing beyond a ragged row's width are dropped.
// Complexity: O(d).
func (t Topology) Neighbors(p Position) []Position {
	out := make([]Position, 0, len(t.offsets))
	for _, d := range t.offsets {
		q := p.Add(d)
		if t.InBounds(q) {
			out = append(out, q)
		}
	}
	return out
}

// Each calls fn for every cell in row-major order.
func (t Topology) Each(fn func(p Position)) {
	for r, w := range t.widths {
		for c := 0; c < w; c++ {
			fn(Position{Row: r, Col: c})
		}
	}
}
