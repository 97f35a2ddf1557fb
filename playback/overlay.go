package playback

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/katalvlaran/gridpath/topology"
)

// Overlay is the paint state layered over a grid. The primary layer holds the
// playback paints; the alternative layer is a set of marked cells.
// The zero Overlay has no cells.
type Overlay struct {
	top     topology.Topology
	primary [][]Paint
	alt     mapset.Set[topology.Position]
}

func newOverlay(top topology.Topology) *Overlay {
	primary := make([][]Paint, top.Rows())
	for r := range primary {
		primary[r] = make([]Paint, top.RowWidth(r))
	}
	return &Overlay{top: top, primary: primary, alt: mapset.New[topology.Position]()}
}

// Topology returns the overlay's shape.
func (o Overlay) Topology() topology.Topology { return o.top }

// At returns the effective paint of p: the primary paint when non-empty,
// else PaintAlt if the alternative layer marks p, else PaintEmpty.
func (o Overlay) At(p topology.Position) Paint {
	if !o.top.InBounds(p) || o.primary == nil {
		return PaintEmpty
	}
	if v := o.primary[p.Row][p.Col]; v != PaintEmpty {
		return v
	}
	if o.alt.Has(p) {
		return PaintAlt
	}
	return PaintEmpty
}

// Primary returns the primary-layer paint of p.
func (o Overlay) Primary(p topology.Position) Paint {
	if !o.top.InBounds(p) || o.primary == nil {
		return PaintEmpty
	}
	return o.primary[p.Row][p.Col]
}

// Alt reports whether the alternative layer marks p.
func (o Overlay) Alt(p topology.Position) bool {
	return o.primary != nil && o.alt.Has(p)
}

// Rows returns the effective paints row by row.
func (o Overlay) Rows() [][]Paint {
	out := make([][]Paint, len(o.primary))
	for r := range o.primary {
		out[r] = make([]Paint, len(o.primary[r]))
		for c := range o.primary[r] {
			out[r][c] = o.At(topology.Position{Row: r, Col: c})
		}
	}
	return out
}

// Count returns how many cells have effective paint v.
func (o Overlay) Count(v Paint) int {
	n := 0
	o.top.Each(func(p topology.Position) {
		if o.primary != nil && o.At(p) == v {
			n++
		}
	})
	return n
}

func (o *Overlay) set(p topology.Position, v Paint) { o.primary[p.Row][p.Col] = v }

func (o *Overlay) clone() *Overlay {
	c := &Overlay{top: o.top, primary: make([][]Paint, len(o.primary)), alt: mapset.New[topology.Position]()}
	for r := range o.primary {
		c.primary[r] = append([]Paint(nil), o.primary[r]...)
	}
	o.alt.Each(func(p topology.Position) { c.alt.Put(p) })
	return c
}
