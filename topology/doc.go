// Package topology describes the shape of a cell grid: how many rows it has,
// how wide each row is, and which cells are adjacent to which.
//
// What:
//
//   - Square:    size×size cells, 4-directional adjacency (E, S, W, N).
//   - Triangle:  row r holds r+1 cells; square offsets, bounds checked per row.
//   - Hexagonal: diamond profile peaking at the middle row; 6-directional adjacency.
//
// Why:
//
//   - Search code walks cells through Neighbors and never needs to know the shape.
//   - Ragged rows are validated, never clamped: an offset that lands past the
//     end of a shorter row simply is not a neighbor.
//
// Complexity:
//
//   - RowWidth, InBounds: O(1).
//   - Neighbors:          O(d), d = 4 or 6.
//   - CellCount:          O(rows).
//
// Errors:
//
//   - ErrDegenerate:   size ≤ 0 or a row formula producing a non-positive width.
//   - ErrUnknownShape: unrecognized shape selector.
package topology
