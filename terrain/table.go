package terrain

import (
	"fmt"
	"math"
)

// CostTable is a named mapping from Kind to Cost.
// Kinds missing from Costs are Impassable.
type CostTable struct {
	Name  string
	Costs map[Kind]Cost
}

// Soft is the exploratory table: every obstacle carries a finite price.
//
//	empty 1, mud 5, wall 10, car 15, human 20
func Soft() CostTable {
	return CostTable{
		Name: "soft",
		Costs: map[Kind]Cost{
			Empty: 1,
			Mud:   5,
			Wall:  10,
			Car:   15,
			Human: 20,
		},
	}
}

// Hard is the navigation table: walls, cars and humans block.
//
//	empty 1, mud 5, wall/car/human impassable
func Hard() CostTable {
	return CostTable{
		Name: "hard",
		Costs: map[Kind]Cost{
			Empty: 1,
			Mud:   5,
			Wall:  Impassable,
			Car:   Impassable,
			Human: Impassable,
		},
	}
}

// TableByName returns the built-in table "soft" or "hard".
func TableByName(name string) (CostTable, error) {
	switch name {
	case "soft":
		return Soft(), nil
	case "hard", "":
		return Hard(), nil
	}
	return CostTable{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

// Cost returns the price of entering a cell of kind k.
// Start is always 0; End is priced as Empty.
func (t CostTable) Cost(k Kind) Cost {
	switch k {
	case Start:
		return 0
	case End:
		k = Empty
	}
	c, ok := t.Costs[k]
	if !ok {
		return Impassable
	}
	return c
}

// Validate rejects negative or NaN entries.
func (t CostTable) Validate() error {
	for k, c := range t.Costs {
		if c < 0 || math.IsNaN(float64(c)) {
			return fmt.Errorf("%w: table %q kind %s cost %v", ErrNegativeCost, t.Name, k, float64(c))
		}
	}
	return nil
}

// With returns a copy of t with kind k priced at c.
func (t CostTable) With(k Kind, c Cost) CostTable {
	costs := make(map[Kind]Cost, len(t.Costs)+1)
	for kk, cc := range t.Costs {
		costs[kk] = cc
	}
	costs[k] = c
	return CostTable{Name: t.Name, Costs: costs}
}

// CostOf is the free-function form of t.Cost(k).
func CostOf(k Kind, t CostTable) Cost {
	return t.Cost(k)
}
