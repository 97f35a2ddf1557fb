// Package report turns a search.Result into user-facing figures and into the
// record shape kept by the storage collaborator.
//
// What:
//
//   - Assemble: per-step terrain and marginal cost, total cost, path length,
//     score and a note when no path exists.
//   - NewRecord: the persisted {name, algorithm, path, …, createdAt} shape.
//   - Render: rebuilds a start/path/end mark grid from {gridSize, gridType, path}.
//
// Score is max(100 - totalCost, 10): a bounded, decreasing presentation
// figure, not a correctness signal. A negative result scores 0.
package report

import (
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// NoPathNote is attached to every negative result.
const NoPathNote = "No path could be found with the current settings."

const (
	maxScore = 100
	minScore = 10
)

// Step is one path cell with its terrain and the cost charged for entering it.
type Step struct {
	topology.Position
	Terrain terrain.Kind `json:"terrain"`
	Cost    terrain.Cost `json:"cost"`
}

// Annotated is a Result enriched for presentation and persistence.
type Annotated struct {
	Algorithm    search.Algorithm    `json:"algorithm"`
	Found        bool                `json:"found"`
	Path         []topology.Position `json:"path"`
	Steps        []Step              `json:"pathCosts"`
	Visited      []topology.Position `json:"visitedOrder"`
	Alternatives []topology.Position `json:"alternatives"`
	VisitedCount int                 `json:"visitedCount"`
	PathLength   int                 `json:"pathLength"`
	TotalCost    terrain.Cost        `json:"totalCost"`
	Score        float64             `json:"score"`
	TimeTakenMs  int64               `json:"timeTakenMs"`
	Note         string              `json:"note,omitempty"`
}

// Assemble prices res's path with table and derives the summary figures.
// The start step always charges 0 regardless of its terrain.
// res must be non-nil.
func Assemble(res *search.Result, table terrain.CostTable) Annotated {
	a := Annotated{
		Algorithm:    res.Algorithm,
		Found:        res.Found,
		Path:         []topology.Position{},
		Steps:        []Step{},
		Visited:      res.Visited,
		Alternatives: res.Alternatives(),
		VisitedCount: len(res.Visited),
		TimeTakenMs:  res.Elapsed.Milliseconds(),
	}
	if !res.Found || len(res.Path) == 0 {
		a.Found = false
		a.Note = NoPathNote
		return a
	}

	a.Path = res.Path
	a.Steps = make([]Step, len(res.Path))
	for i, p := range res.Path {
		kind := res.Grid.Kind(p)
		var cost terrain.Cost
		if i > 0 {
			cost = table.Cost(kind)
		}
		a.Steps[i] = Step{Position: p, Terrain: kind, Cost: cost}
		a.TotalCost += cost
	}
	a.PathLength = len(res.Path)
	a.Score = Score(a.TotalCost)

	return a
}

// Score maps a total cost to max(100 - cost, 10).
func Score(total terrain.Cost) float64 {
	s := maxScore - float64(total)
	if s < minScore {
		return minScore
	}
	return s
}
