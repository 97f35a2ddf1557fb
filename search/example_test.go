// File: search/example_test.go
package search_test

import (
	"fmt"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

////////////////////////////////////////////////////////////////////////////////
// Example: Run
////////////////////////////////////////////////////////////////////////////////

// ExampleRun routes around a wall with a single gap.
// Scenario:
//
//	S . . .
//	# # . #
//	. . . E
//
// Laid out on a 4×4 square grid whose last row stays empty.
// Dijkstra with the hard table must squeeze through (1,2).
func ExampleRun() {
	g, _ := grid.New(topology.Square, 4)
	g, _ = g.With(topology.Position{Row: 0, Col: 0}, terrain.Start)
	g, _ = g.With(topology.Position{Row: 2, Col: 3}, terrain.End)
	for _, c := range []int{0, 1, 3} {
		g, _ = g.With(topology.Position{Row: 1, Col: c}, terrain.Wall)
	}

	res, err := search.Run(g,
		topology.Position{Row: 0, Col: 0},
		topology.Position{Row: 2, Col: 3},
		search.Dijkstra,
		search.WithCostTable(terrain.Hard()),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("found:", res.Found)
	fmt.Println("path:", res.Path)
	fmt.Println("cost:", res.TotalCost)
	// Output:
	// found: true
	// path: [(0,0) (0,1) (0,2) (1,2) (2,2) (2,3)]
	// cost: 5
}
