package alloc

import "testing"

func TestDefaultGrowPreservesContents(t *testing.T) {
	var a Default[int]
	cur := []int{1, 2, 3}
	grown, err := a.Grow(cur)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grown) != len(cur) {
		t.Fatalf("Grow changed length: got %d, want %d", len(grown), len(cur))
	}
	for i, v := range cur {
		if grown[i] != v {
			t.Fatalf("Grow lost element %d: got %d, want %d", i, grown[i], v)
		}
	}
	if cap(grown) < len(cur)+1 {
		t.Fatalf("Grow did not make room for at least one more element: cap=%d", cap(grown))
	}
}

func TestDefaultGrowReusesCapacityWhenAvailable(t *testing.T) {
	var a Default[int]
	cur := make([]int, 2, ChunkSize)
	grown, err := a.Grow(cur)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if &grown[0] != &cur[0] {
		t.Fatalf("Grow reallocated a slice that already had spare capacity")
	}
}

type exhaustedAllocator[T any] struct{}

func (exhaustedAllocator[T]) Grow(cur []T) ([]T, error) { return nil, ErrExhausted }

func TestAllocatorInterfaceAcceptsFailingImplementations(t *testing.T) {
	var a Allocator[int] = exhaustedAllocator[int]{}
	if _, err := a.Grow(nil); err != ErrExhausted {
		t.Fatalf("got err %v, want ErrExhausted", err)
	}
}
