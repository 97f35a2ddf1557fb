// Package obstacle scatters obstacles over a grid.
//
// Randomness is always injected as a *rand.Rand so placements are
// reproducible: rand.New(rand.NewSource(seed)).
package obstacle

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// Sentinel errors for obstacle placement.
var (
	ErrUnknownLevel = errors.New("obstacle: unknown level")
	ErrUnknownFill  = errors.New("obstacle: unknown fill")
	ErrNotObstacle  = errors.New("obstacle: kind is not an obstacle")
	ErrChance       = errors.New("obstacle: chance must be within [0, 1]")
	ErrMazeTooSmall = errors.New("obstacle: maze size must be at least 4")
	ErrNilGrid      = errors.New("obstacle: grid is nil")
	ErrNilRand      = errors.New("obstacle: rand source is nil")
)

// Level is the share of cells to cover.
type Level int

const (
	None Level = iota
	Low
	Medium
	High
)

var levelNames = [...]string{None: "None", Low: "Low", Medium: "Medium", High: "High"}

var levelFractions = [...]float64{None: 0, Low: 0.1, Medium: 0.2, High: 0.3}

// String returns "None", "Low", "Medium" or "High".
func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel maps a level name to a Level.
func ParseLevel(name string) (Level, error) {
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Fraction returns the share of the cell count the level covers.
func (l Level) Fraction() float64 {
	if l < 0 || int(l) >= len(levelFractions) {
		return 0
	}
	return levelFractions[l]
}

// Fill chooses what Place writes.
type Fill int

const (
	FillWall Fill = iota
	FillMud
	FillCar
	FillHuman
	// FillMixed picks wall, mud, car or human uniformly per cell.
	FillMixed
)

var fillNames = [...]string{FillWall: "Wall", FillMud: "Mud", FillCar: "Car", FillHuman: "Human", FillMixed: "Mixed"}

var obstacles = [...]terrain.Kind{terrain.Wall, terrain.Mud, terrain.Car, terrain.Human}

// String returns the fill name.
func (f Fill) String() string {
	if f < 0 || int(f) >= len(fillNames) {
		return fmt.Sprintf("Fill(%d)", int(f))
	}
	return fillNames[f]
}

// ParseFill maps "Wall", "Mud", "Car", "Human" or "Mixed" to a Fill.
func ParseFill(name string) (Fill, error) {
	for f, n := range fillNames {
		if n == name {
			return Fill(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFill, name)
}

func (f Fill) pick(rng *rand.Rand) terrain.Kind {
	if f == FillMixed {
		return obstacles[rng.Intn(len(obstacles))]
	}
	return obstacles[f]
}

// Place returns a copy of g with floor(CellCount × level.Fraction()) Empty
// cells, chosen uniformly at random, replaced by fill. Markers and existing
// obstacles are kept. When fewer Empty cells remain, all of them are filled.
func Place(g *grid.Grid, level Level, fill Fill, rng *rand.Rand) (*grid.Grid, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	if level < 0 || int(level) >= len(levelNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(level))
	}
	if fill < 0 || int(fill) >= len(fillNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFill, int(fill))
	}

	// 1) collect Empty cells in row-major order
	var free []topology.Position
	g.Topology().Each(func(p topology.Position) {
		if g.Kind(p) == terrain.Empty {
			free = append(free, p)
		}
	})

	// 2) shuffle and take the level's share of the whole grid
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	count := int(float64(g.Topology().CellCount()) * level.Fraction())
	if count > len(free) {
		count = len(free)
	}

	// 3) write on a row copy
	rows := g.Rows()
	for _, p := range free[:count] {
		rows[p.Row][p.Col] = fill.pick(rng)
	}
	return grid.FromRows(g.Shape(), rows)
}

const minMazeSize = 4

// Maze builds a size×size square grid walled on its border, with each other
// Empty cell turned into kind with probability chance. Start sits at (1,1)
// and end at (size-2,size-2).
func Maze(size int, kind terrain.Kind, chance float64, rng *rand.Rand) (g *grid.Grid, start, end topology.Position, err error) {
	switch {
	case rng == nil:
		return nil, start, end, ErrNilRand
	case size < minMazeSize:
		return nil, start, end, fmt.Errorf("%w: %d", ErrMazeTooSmall, size)
	case chance < 0 || chance > 1 || math.IsNaN(chance):
		return nil, start, end, fmt.Errorf("%w: %v", ErrChance, chance)
	}
	if !isObstacle(kind) {
		return nil, start, end, fmt.Errorf("%w: %s", ErrNotObstacle, kind)
	}

	start = topology.Position{Row: 1, Col: 1}
	end = topology.Position{Row: size - 2, Col: size - 2}

	rows := make([][]terrain.Kind, size)
	for r := range rows {
		rows[r] = make([]terrain.Kind, size)
		for c := range rows[r] {
			p := topology.Position{Row: r, Col: c}
			switch {
			case r == 0 || c == 0 || r == size-1 || c == size-1:
				rows[r][c] = terrain.Wall
			case p == start || p == end:
			case rng.Float64() < chance:
				rows[r][c] = kind
			}
		}
	}
	rows[start.Row][start.Col] = terrain.Start
	rows[end.Row][end.Col] = terrain.End

	g, err = grid.FromRows(topology.Square, rows)
	return g, start, end, err
}

func isObstacle(k terrain.Kind) bool {
	for _, o := range obstacles {
		if k == o {
			return true
		}
	}
	return false
}
