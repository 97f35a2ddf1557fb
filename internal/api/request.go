package api

import (
	"errors"
	"math/rand"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/internal/config"
	"github.com/katalvlaran/gridpath/obstacle"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// SearchRequest describes one search. Rows, when present, supplies the
// terrain and fixes the size; otherwise an Empty grid of GridSize is used.
// GridType defaults to Square. Start, End and Algorithm are required; markers
// already present in Rows are cleared so the request's own endpoints win.
type SearchRequest struct {
	GridType    topology.Shape     `json:"gridType"`
	GridSize    int                `json:"gridSize"`
	Rows        [][]terrain.Kind   `json:"rows,omitempty"`
	Start       *topology.Position `json:"start"`
	End         *topology.Position `json:"end"`
	Algorithm   *search.Algorithm  `json:"algorithm"`
	CostTable   string             `json:"costTable,omitempty"`
	Policy      string             `json:"policy,omitempty"`
	OverrideMud bool               `json:"overrideMud"`
	Obstacles   *ObstacleRequest   `json:"obstacles,omitempty"`
}

// ObstacleRequest scatters obstacles before searching.
type ObstacleRequest struct {
	Level string `json:"level"`
	Fill  string `json:"fill"`
	Seed  int64  `json:"seed"`
}

// validate rejects a request missing one of its required fields.
func (req *SearchRequest) validate() error {
	switch {
	case req.Start == nil:
		return badRequest(errors.New("start is required"))
	case req.End == nil:
		return badRequest(errors.New("end is required"))
	case req.Algorithm == nil:
		return badRequest(errors.New("algorithm is required"))
	}
	return nil
}

// buildGrid assembles the grid the request describes, markers included.
func (req *SearchRequest) buildGrid() (*grid.Grid, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	var (
		g   *grid.Grid
		err error
	)
	if len(req.Rows) > 0 {
		g, err = grid.FromRows(req.GridType, req.Rows)
	} else {
		g, err = grid.New(req.GridType, req.GridSize)
	}
	if err != nil {
		return nil, err
	}
	if g, err = clearMarkers(g); err != nil {
		return nil, err
	}
	if g, err = g.With(*req.Start, terrain.Start); err != nil {
		return nil, err
	}
	if *req.End != *req.Start {
		if g, err = g.With(*req.End, terrain.End); err != nil {
			return nil, err
		}
	}

	if o := req.Obstacles; o != nil {
		level, err := obstacle.ParseLevel(o.Level)
		if err != nil {
			return nil, err
		}
		fill, err := obstacle.ParseFill(o.Fill)
		if err != nil {
			return nil, err
		}
		if g, err = obstacle.Place(g, level, fill, rand.New(rand.NewSource(o.Seed))); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// clearMarkers turns every Start and End cell of g back into Empty.
func clearMarkers(g *grid.Grid) (*grid.Grid, error) {
	for _, k := range []terrain.Kind{terrain.Start, terrain.End} {
		for p, ok := g.Find(k); ok; p, ok = g.Find(k) {
			var err error
			if g, err = g.With(p, terrain.Empty); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// options resolves the request's table and policy against cfg.
func (req *SearchRequest) options(cfg *config.Config) (terrain.CostTable, []search.Option, error) {
	table, err := cfg.Table(req.CostTable)
	if err != nil {
		return terrain.CostTable{}, nil, err
	}
	policy := cfg.Search.Policy
	if req.Policy != "" {
		policy = req.Policy
	}
	p, err := config.ParsePolicy(policy)
	if err != nil {
		return terrain.CostTable{}, nil, badRequest(err)
	}
	return table, []search.Option{
		search.WithCostTable(table),
		search.WithPolicy(p),
		search.WithOverrideMud(req.OverrideMud || cfg.Search.OverrideMud),
	}, nil
}
