package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

func TestNew_EmptyShapes(t *testing.T) {
	g, err := grid.New(topology.Triangle, 4)
	require.NoError(t, err)
	rows := g.Rows()
	require.Len(t, rows, 4)
	for r, row := range rows {
		assert.Len(t, row, r+1)
	}
	assert.Equal(t, 10, g.Count(terrain.Empty))

	_, err = grid.New(topology.Square, 0)
	assert.ErrorIs(t, err, topology.ErrDegenerate)
}

func TestFromRows_ValidatesWidths(t *testing.T) {
	_, err := grid.FromRows(topology.Triangle, [][]terrain.Kind{
		{terrain.Empty},
		{terrain.Empty, terrain.Empty, terrain.Empty},
	})
	assert.ErrorIs(t, err, grid.ErrRowWidth)

	_, err = grid.FromRows(topology.Square, nil)
	assert.ErrorIs(t, err, topology.ErrDegenerate)

	rows := [][]terrain.Kind{
		{terrain.Start, terrain.Wall},
		{terrain.Mud, terrain.End},
	}
	g, err := grid.FromRows(topology.Square, rows)
	require.NoError(t, err)
	rows[0][1] = terrain.Empty
	assert.Equal(t, terrain.Wall, g.Kind(topology.Position{Row: 0, Col: 1}), "input must be deep-copied")
}

func TestWith_CopyOnWrite(t *testing.T) {
	g, err := grid.New(topology.Square, 3)
	require.NoError(t, err)

	p := topology.Position{Row: 1, Col: 2}
	next, err := g.With(p, terrain.Wall)
	require.NoError(t, err)
	assert.Equal(t, terrain.Wall, next.Kind(p))
	assert.Equal(t, terrain.Empty, g.Kind(p))

	_, err = g.With(topology.Position{Row: 3, Col: 0}, terrain.Wall)
	assert.ErrorIs(t, err, grid.ErrOutOfBounds)
	_, err = g.At(topology.Position{Row: -1, Col: 0})
	assert.ErrorIs(t, err, grid.ErrOutOfBounds)
}

func TestFind(t *testing.T) {
	g, _ := grid.New(topology.Hexagonal, 5)
	g, _ = g.With(topology.Position{Row: 2, Col: 4}, terrain.End)

	p, ok := g.Find(terrain.End)
	require.True(t, ok)
	assert.Equal(t, topology.Position{Row: 2, Col: 4}, p)
	_, ok = g.Find(terrain.Start)
	assert.False(t, ok)
}
