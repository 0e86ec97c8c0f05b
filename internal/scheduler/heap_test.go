package scheduler

import (
	"testing"
	"time"
)

func TestHeapOrdersByTimeThenID(t *testing.T) {
	h := &taskHeap{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	heapPush(h, entry{id: "late", at: base.Add(2 * time.Hour)})
	heapPush(h, entry{id: "b", at: base})
	heapPush(h, entry{id: "mid", at: base.Add(time.Hour)})
	heapPush(h, entry{id: "a", at: base})

	want := []string{"a", "b", "mid", "late"}
	for i, id := range want {
		got := heapPop(h)
		if got.id != id {
			t.Fatalf("pop %d: got %s, want %s", i, got.id, id)
		}
	}
	if h.Len() != 0 {
		t.Fatalf("expected empty heap, got %d", h.Len())
	}
}

func TestHeapRemove(t *testing.T) {
	h := &taskHeap{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"x", "y", "z"} {
		heapPush(h, entry{id: id, at: base.Add(time.Duration(i) * time.Minute)})
	}

	if !heapRemove(h, "x") {
		t.Fatal("expected x to be removed")
	}
	if heapRemove(h, "x") {
		t.Fatal("x removed twice")
	}
	if got := heapPop(h); got.id != "y" {
		t.Fatalf("expected y after removing x, got %s", got.id)
	}
	if got := heapPop(h); got.id != "z" {
		t.Fatalf("expected z, got %s", got.id)
	}
}

func TestHeapRemoveFromEmpty(t *testing.T) {
	h := &taskHeap{}
	if heapRemove(h, "nope") {
		t.Fatal("remove on empty heap reported success")
	}
}
