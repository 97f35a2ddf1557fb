package search

import (
	"container/heap"

	"github.com/katalvlaran/gridpath/topology"
)

// entry is one frontier record. seq is the push counter used for stable ties.
type entry struct {
	pos      topology.Position
	g        float64
	priority float64
	seq      int
}

// frontier is the open set. BFS uses fifo, Dijkstra and AStar use minHeap.
type frontier interface {
	push(e entry)
	pop() entry
	len() int
}

// fifo is a slice-backed queue; pop order equals push order.
type fifo struct {
	items []entry
	head  int
}

func (q *fifo) push(e entry) { q.items = append(q.items, e) }

func (q *fifo) pop() entry {
	e := q.items[q.head]
	q.head++
	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 64 && q.head*2 > len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return e
}

func (q *fifo) len() int { return len(q.items) - q.head }

// minHeap orders entries by priority, then by seq.
type minHeap struct {
	pq entryPQ
}

func (h *minHeap) push(e entry) { heap.Push(&h.pq, e) }
func (h *minHeap) pop() entry   { return heap.Pop(&h.pq).(entry) }
func (h *minHeap) len() int     { return h.pq.Len() }

// entryPQ implements heap.Interface.
type entryPQ []entry

// Len returns the number of entries.
func (pq entryPQ) Len() int { return len(pq) }

// Less orders by priority; equal priorities keep push order.
func (pq entryPQ) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}

// Swap swaps two entries.
func (pq entryPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push appends x; called by heap.Push.
func (pq *entryPQ) Push(x interface{}) { *pq = append(*pq, x.(entry)) }

// Pop removes the last entry; called by heap.Pop.
func (pq *entryPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	e := old[n-1]
	*pq = old[:n-1]

	return e
}
