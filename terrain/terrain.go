// Package terrain defines the cell kinds of a grid, their traversal costs and
// the walkability rule.
//
// Cost and walkability are separate questions. A CostTable prices a kind
// (finite or Impassable); IsWalkable says whether a kind may be entered at
// all given the mud override. Which of the two a search consults is chosen by
// a Policy, so the "soft" and "hard" tables stay independently selectable.
package terrain

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for terrain parsing and cost tables.
var (
	// ErrUnknownKind indicates an unrecognized terrain name.
	ErrUnknownKind = errors.New("terrain: unknown kind")
	// ErrNegativeCost indicates a cost table entry below zero.
	ErrNegativeCost = errors.New("terrain: negative cost")
	// ErrUnknownTable indicates a cost table name that is not registered.
	ErrUnknownTable = errors.New("terrain: unknown cost table")
)

// Kind is the terrain category of a cell. Start and End are positional
// markers laid over an otherwise empty cell.
type Kind int

const (
	Empty Kind = iota
	Wall
	Mud
	Car
	Human
	Start
	End
)

var kindNames = [...]string{
	Empty: "empty",
	Wall:  "wall",
	Mud:   "mud",
	Car:   "car",
	Human: "human",
	Start: "start",
	End:   "end",
}

// String returns the lowercase terrain name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a lowercase terrain name to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// IsWalkable reports whether a cell of kind k may be entered.
// Wall, Car and Human never; Mud only when overrideMud is set;
// Empty, Start and End always.
func IsWalkable(k Kind, overrideMud bool) bool {
	switch k {
	case Empty, Start, End:
		return true
	case Mud:
		return overrideMud
	default:
		return false
	}
}

// Policy decides how a search combines IsWalkable with a cost table.
type Policy int

const (
	// PolicyPredicate enters a cell only if IsWalkable allows it and its cost is finite.
	PolicyPredicate Policy = iota
	// PolicyCostTable enters any cell with a finite cost; Mud still needs the override.
	PolicyCostTable
)

// Enterable applies policy p to a cell of kind k priced by table.
func (p Policy) Enterable(k Kind, table CostTable, overrideMud bool) bool {
	if !table.Cost(k).Finite() {
		return false
	}
	if k == Mud {
		return overrideMud
	}
	if p == PolicyCostTable {
		return true
	}
	return IsWalkable(k, overrideMud)
}

// Cost is a non-negative traversal price; Impassable is +Inf.
type Cost float64

// Impassable marks a kind that can never be entered.
var Impassable = Cost(math.Inf(1))

// Finite reports whether c is a usable price.
func (c Cost) Finite() bool {
	return !math.IsInf(float64(c), 1) && !math.IsNaN(float64(c))
}
