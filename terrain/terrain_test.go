package terrain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridpath/terrain"
)

func TestIsWalkable(t *testing.T) {
	cases := []struct {
		kind     terrain.Kind
		override bool
		want     bool
	}{
		{terrain.Empty, false, true},
		{terrain.Start, false, true},
		{terrain.End, false, true},
		{terrain.Mud, false, false},
		{terrain.Mud, true, true},
		{terrain.Wall, true, false},
		{terrain.Car, true, false},
		{terrain.Human, true, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, terrain.IsWalkable(tc.kind, tc.override), "%s override=%v", tc.kind, tc.override)
	}
}

func TestCostTables(t *testing.T) {
	soft, hard := terrain.Soft(), terrain.Hard()

	assert.Equal(t, terrain.Cost(10), soft.Cost(terrain.Wall))
	assert.Equal(t, terrain.Cost(20), terrain.CostOf(terrain.Human, soft))
	assert.False(t, hard.Cost(terrain.Wall).Finite())
	assert.False(t, hard.Cost(terrain.Car).Finite())
	assert.Equal(t, terrain.Cost(5), hard.Cost(terrain.Mud))

	// Markers: start is free, end is priced as empty.
	for _, tbl := range []terrain.CostTable{soft, hard} {
		assert.Equal(t, terrain.Cost(0), tbl.Cost(terrain.Start))
		assert.Equal(t, terrain.Cost(1), tbl.Cost(terrain.End))
	}

	empty := terrain.CostTable{Name: "empty"}
	assert.False(t, empty.Cost(terrain.Empty).Finite(), "missing kinds are impassable")
}

func TestValidate_NegativeCost(t *testing.T) {
	require.NoError(t, terrain.Soft().Validate())
	require.NoError(t, terrain.Hard().Validate())

	bad := terrain.Soft().With(terrain.Mud, -1)
	assert.ErrorIs(t, bad.Validate(), terrain.ErrNegativeCost)
	// With copies; the original stays valid.
	assert.Equal(t, terrain.Cost(5), terrain.Soft().Cost(terrain.Mud))
}

// TestPolicy_Enterable shows the two walk policies over both tables.
func TestPolicy_Enterable(t *testing.T) {
	soft, hard := terrain.Soft(), terrain.Hard()

	// Predicate policy: walls never enterable, whatever the table says.
	assert.False(t, terrain.PolicyPredicate.Enterable(terrain.Wall, soft, false))
	assert.False(t, terrain.PolicyPredicate.Enterable(terrain.Wall, hard, false))
	assert.True(t, terrain.PolicyPredicate.Enterable(terrain.Empty, soft, false))

	// Cost-table policy: soft walls are crossable at their price, hard ones are not.
	assert.True(t, terrain.PolicyCostTable.Enterable(terrain.Wall, soft, false))
	assert.True(t, terrain.PolicyCostTable.Enterable(terrain.Human, soft, false))
	assert.False(t, terrain.PolicyCostTable.Enterable(terrain.Wall, hard, false))

	// Mud needs the override under both policies.
	for _, p := range []terrain.Policy{terrain.PolicyPredicate, terrain.PolicyCostTable} {
		assert.False(t, p.Enterable(terrain.Mud, soft, false))
		assert.True(t, p.Enterable(terrain.Mud, soft, true))
	}
}

func TestParseKind(t *testing.T) {
	for k := terrain.Empty; k <= terrain.End; k++ {
		got, err := terrain.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := terrain.ParseKind("lava")
	assert.ErrorIs(t, err, terrain.ErrUnknownKind)

	_, err = terrain.TableByName("medium")
	assert.ErrorIs(t, err, terrain.ErrUnknownTable)
}
