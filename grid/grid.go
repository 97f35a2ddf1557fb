// Package grid holds an immutable snapshot of a terrain grid: a topology plus
// one terrain.Kind per cell.
//
// A Grid is the input to one search. Edits never mutate a Grid in place;
// With returns a new snapshot so a Result can keep referring to the
// exact cells it was computed on.
package grid

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// Sentinel errors for grid construction and access.
var (
	// ErrRowWidth indicates a caller row whose length disagrees with the row formula.
	ErrRowWidth = errors.New("grid: row width does not match topology")
	// ErrOutOfBounds indicates a position that does not index a cell.
	ErrOutOfBounds = errors.New("grid: position out of bounds")
)

// Grid is a topology plus terrain. It is immutable once built.
type Grid struct {
	top   topology.Topology
	cells [][]terrain.Kind
}

// New returns an all-Empty grid of the given shape and size.
// Errors from topology.New are returned unchanged.
// Complexity: O(cells).
func New(shape topology.Shape, size int) (*Grid, error) {
	top, err := topology.New(shape, size)
	if err != nil {
		return nil, err
	}
	cells := make([][]terrain.Kind, top.Rows())
	for r := range cells {
		cells[r] = make([]terrain.Kind, top.RowWidth(r))
	}
	return &Grid{top: top, cells: cells}, nil
}

// FromRows validates caller rows against the shape's row formula and deep-copies them.
// The row count is the grid size. Returns ErrRowWidth on a mismatch.
func FromRows(shape topology.Shape, rows [][]terrain.Kind) (*Grid, error) {
	top, err := topology.New(shape, len(rows))
	if err != nil {
		return nil, err
	}
	cells := make([][]terrain.Kind, len(rows))
	for r, row := range rows {
		if want := top.RowWidth(r); len(row) != want {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowWidth, r, len(row), want)
		}
		cells[r] = make([]terrain.Kind, len(row))
		copy(cells[r], row)
	}
	return &Grid{top: top, cells: cells}, nil
}

// Topology returns the grid's topology.
func (g *Grid) Topology() topology.Topology { return g.top }

// Shape is shorthand for g.Topology().Shape.
func (g *Grid) Shape() topology.Shape { return g.top.Shape }

// Size is shorthand for g.Topology().Size.
func (g *Grid) Size() int { return g.top.Size }

// InBounds reports whether p indexes a cell.
func (g *Grid) InBounds(p topology.Position) bool { return g.top.InBounds(p) }

// Kind returns the terrain at p. The caller must ensure p is in bounds.
func (g *Grid) Kind(p topology.Position) terrain.Kind {
	return g.cells[p.Row][p.Col]
}

// At is the checked form of Kind.
func (g *Grid) At(p topology.Position) (terrain.Kind, error) {
	if !g.top.InBounds(p) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	return g.cells[p.Row][p.Col], nil
}

// Rows returns a deep copy of the cells.
func (g *Grid) Rows() [][]terrain.Kind {
	out := make([][]terrain.Kind, len(g.cells))
	for r, row := range g.cells {
		out[r] = make([]terrain.Kind, len(row))
		copy(out[r], row)
	}
	return out
}

// With returns a copy of g with the cell at p set to k.
func (g *Grid) With(p topology.Position, k terrain.Kind) (*Grid, error) {
	if !g.top.InBounds(p) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	next := &Grid{top: g.top, cells: g.Rows()}
	next.cells[p.Row][p.Col] = k
	return next, nil
}

// Find returns the first cell (row-major) holding kind k.
func (g *Grid) Find(k terrain.Kind) (topology.Position, bool) {
	for r, row := range g.cells {
		for c, v := range row {
			if v == k {
				return topology.Position{Row: r, Col: c}, true
			}
		}
	}
	return topology.Position{}, false
}

// Count returns how many cells hold kind k.
func (g *Grid) Count(k terrain.Kind) int {
	n := 0
	for _, row := range g.cells {
		for _, v := range row {
			if v == k {
				n++
			}
		}
	}
	return n
}
