package scheduler

import (
	"container/heap"
	"time"
)

// entry is a pending wake-up. The heap only indexes ids; the task itself
// lives in the store.
type entry struct {
	id string
	at time.Time
}

// taskHeap implements container/heap.Interface, earliest first with ties
// broken by ascending id.
type taskHeap []entry

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	return h[i].id < h[j].id
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func heapPush(h *taskHeap, e entry) {
	heap.Push(h, e)
}

// heapPop panics if the heap is empty.
func heapPop(h *taskHeap) entry {
	return heap.Pop(h).(entry)
}

// heapRemove drops the entry for id and reports whether it was present.
func heapRemove(h *taskHeap, id string) bool {
	for i, e := range *h {
		if e.id == id {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
