package report

import (
	"fmt"

	"github.com/katalvlaran/gridpath/topology"
)

// Mark is the paint of a re-rendered saved path.
type Mark int

const (
	MarkEmpty Mark = iota
	MarkStart
	MarkEnd
	MarkPath
)

var markNames = [...]string{
	MarkEmpty: "empty",
	MarkStart: "start",
	MarkEnd:   "end",
	MarkPath:  "path",
}

// String returns the lowercase mark name.
func (m Mark) String() string {
	if m < 0 || int(m) >= len(markNames) {
		return fmt.Sprintf("Mark(%d)", int(m))
	}
	return markNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Render rebuilds a grid of marks from a saved {size, shape, path}:
// every path cell is MarkPath, then the first becomes MarkStart and the last
// MarkEnd (for a one-cell path the End mark wins). Path cells outside the
// topology are skipped.
func Render(size int, shape topology.Shape, path []topology.Position) ([][]Mark, error) {
	top, err := topology.New(shape, size)
	if err != nil {
		return nil, err
	}
	out := make([][]Mark, top.Rows())
	for r := range out {
		out[r] = make([]Mark, top.RowWidth(r))
	}

	for _, p := range path {
		if top.InBounds(p) {
			out[p.Row][p.Col] = MarkPath
		}
	}
	if len(path) > 0 {
		if first := path[0]; top.InBounds(first) {
			out[first.Row][first.Col] = MarkStart
		}
		if last := path[len(path)-1]; top.InBounds(last) {
			out[last.Row][last.Col] = MarkEnd
		}
	}

	return out, nil
}
