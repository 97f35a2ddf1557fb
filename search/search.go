package search

import (
	"fmt"
	"time"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// Run searches g for a route from start to end with algorithm alg.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGrid).
//  2. alg must be BFS, Dijkstra or AStar (ErrUnknownAlgorithm).
//  3. start and end must index cells (ErrStartOutOfBounds, ErrEndOutOfBounds).
//  4. The cost table must have no negative entries (terrain.ErrNegativeCost).
//
// The solve is synchronous and runs to completion. Running twice with the
// same inputs yields the same Path, Visited and TotalCost.
func Run(g *grid.Grid, start, end topology.Position, alg Algorithm, opts ...Option) (*Result, error) {
	// 1) Build options
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// 2) Validate input before touching the loop
	if g == nil {
		return nil, ErrNilGrid
	}
	if alg < BFS || alg > AStar {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(alg))
	}
	if !g.InBounds(start) {
		return nil, fmt.Errorf("%w: %s", ErrStartOutOfBounds, start)
	}
	if !g.InBounds(end) {
		return nil, fmt.Errorf("%w: %s", ErrEndOutOfBounds, end)
	}
	if err := o.Table.Validate(); err != nil {
		return nil, err
	}

	// 3) Run the shared expansion loop
	r := newRunner(g, start, end, alg, o)
	began := time.Now()
	found := r.loop()
	elapsed := time.Since(began)

	res := &Result{
		Algorithm: alg,
		Start:     start,
		End:       end,
		Found:     found,
		Path:      []topology.Position{},
		Visited:   r.visited,
		Elapsed:   elapsed,
		Grid:      g,
		Table:     o.Table,
	}
	if found {
		res.Path = r.reconstruct()
		res.PathLength = len(res.Path)
		res.TotalCost = PathCost(g, res.Path, o.Table)
	}

	return res, nil
}

// PathCost sums the table cost of every path cell after the first.
// The first cell is the start and charges 0 whatever its terrain.
func PathCost(g *grid.Grid, path []topology.Position, table terrain.CostTable) terrain.Cost {
	var total terrain.Cost
	for i := 1; i < len(path); i++ {
		total += table.Cost(g.Kind(path[i]))
	}
	return total
}

// runner holds the mutable state for a single Run.
type runner struct {
	g          *grid.Grid
	top        topology.Topology
	start, end topology.Position
	alg        Algorithm
	opts       Options
	open       frontier
	best       map[topology.Position]float64
	parent     map[topology.Position]topology.Position
	finalized  map[topology.Position]bool
	visited    []topology.Position
	seq        int
}

func newRunner(g *grid.Grid, start, end topology.Position, alg Algorithm, o Options) *runner {
	n := g.Topology().CellCount()
	r := &runner{
		g:         g,
		top:       g.Topology(),
		start:     start,
		end:       end,
		alg:       alg,
		opts:      o,
		best:      make(map[topology.Position]float64, n),
		parent:    make(map[topology.Position]topology.Position, n),
		finalized: make(map[topology.Position]bool, n),
		visited:   make([]topology.Position, 0, n),
	}
	if alg == BFS {
		r.open = &fifo{}
	} else {
		r.open = &minHeap{pq: make(entryPQ, 0, n)}
	}

	r.best[start] = 0
	r.push(start, 0)

	return r
}

// push enqueues p with accumulated cost g using the algorithm's priority.
func (r *runner) push(p topology.Position, g float64) {
	prio := g
	if r.alg == AStar {
		prio += float64(topology.Manhattan(p, r.end))
	}
	r.open.push(entry{pos: p, g: g, priority: prio, seq: r.seq})
	r.seq++
}

// loop runs until the end cell is finalized (true) or the frontier empties (false).
func (r *runner) loop() bool {
	for r.open.len() > 0 {
		// 1) Pop; skip stale duplicates
		cur := r.open.pop()
		if r.finalized[cur.pos] {
			continue
		}

		// 2) Finalize and record
		r.finalized[cur.pos] = true
		r.opts.OnVisit(cur.pos, len(r.visited))
		r.visited = append(r.visited, cur.pos)

		// 3) Goal check
		if cur.pos == r.end {
			return true
		}

		// 4) Relax neighbors
		r.relax(cur)
	}

	return false
}

// relax pushes every neighbor of cur whose tentative cost strictly improves.
func (r *runner) relax(cur entry) {
	for _, nb := range r.top.Neighbors(cur.pos) {
		if r.finalized[nb] {
			continue
		}
		kind := r.g.Kind(nb)
		if !r.opts.Policy.Enterable(kind, r.opts.Table, r.opts.OverrideMud) {
			continue
		}

		step := 1.0
		if r.alg != BFS {
			step = float64(r.opts.Table.Cost(kind))
		}
		tentative := cur.g + step

		if known, ok := r.best[nb]; ok && tentative >= known {
			continue
		}
		r.best[nb] = tentative
		r.parent[nb] = cur.pos
		r.push(nb, tentative)
	}
}

// reconstruct follows parent links from end back to start and reverses them.
func (r *runner) reconstruct() []topology.Position {
	path := []topology.Position{r.end}
	for cur := r.end; cur != r.start; {
		prev, ok := r.parent[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
