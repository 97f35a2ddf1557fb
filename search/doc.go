// Package search finds a route between two cells of a grid.Grid with one of
// three algorithms sharing a single expansion loop:
//
//   - BFS:      FIFO frontier, every move counts 1 for ordering.
//   - Dijkstra: min-heap keyed by accumulated terrain cost g.
//   - AStar:    min-heap keyed by g + Manhattan(p, end).
//
// Expansion loop (all algorithms):
//
//  1. Pop the lowest-priority entry; skip it if its cell is already finalized
//     (lazy decrease-key: stale duplicates stay in the heap and are ignored).
//  2. Finalize the cell and append it to Result.Visited.
//  3. If it is the end cell, rebuild the path from parent links and stop.
//  4. Otherwise relax each in-bounds, enterable, unfinalized neighbor: if
//     g(current) + step is strictly better than its best known cost, record
//     it, set its parent and push it.
//
// Ties are broken by push order. An exhausted frontier is a normal negative
// result (Found == false), never an error.
//
// Cost accounting:
//
//   - Result.TotalCost is the sum of table costs of every path cell except the
//     start, for all three algorithms (BFS included).
//   - The start cell charges 0; the end cell is priced as Empty.
//
// Guarantees:
//
//   - BFS is optimal only when every enterable cell has the same cost.
//   - Dijkstra and AStar are optimal for non-negative tables on square grids.
//   - Manhattan distance is not admissible for 6-directional (hexagonal) or
//     triangular movement; AStar keeps using it there and may return a
//     costlier path than Dijkstra on those shapes.
//
// Complexity:
//
//   - BFS:            O(V + E) time, O(V) memory.
//   - Dijkstra/AStar: O((V + E) log V) time, O(V + E) memory.
//
// Errors (sentinel, all detected before the loop starts):
//
//   - ErrNilGrid, ErrStartOutOfBounds, ErrEndOutOfBounds, ErrUnknownAlgorithm
//     wrap ErrInvalidInput, so errors.Is(err, ErrInvalidInput) matches any of them.
//   - terrain.ErrNegativeCost for a cost table with negative entries.
package search
