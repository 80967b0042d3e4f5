package virttx

import "testing"

func TestPendingFIFOAndDedup(t *testing.T) {
	p := newPending(4)

	p.push(2)
	p.push(0)
	p.push(2) // duplicate, absorbed
	p.push(3)

	if p.length() != 3 {
		t.Fatalf("length=%d want 3", p.length())
	}
	if !p.isMember(2) || !p.isMember(0) || p.isMember(1) {
		t.Fatal("membership set inconsistent with contents")
	}
	for i, want := range []uint32{2, 0, 3} {
		if got := p.pop(); got != want {
			t.Fatalf("pop %d -> %d want %d", i, got, want)
		}
	}
	if p.length() != 0 || p.isMember(2) {
		t.Fatal("queue not empty after draining")
	}
}

// Regression: with a fixed backing array, push/pop cycles far beyond the
// capacity must keep indexing inside the array. Raw, non-modulo indices
// would run off the end after len(queue) pushes.
func TestPendingSurvivesManyCycles(t *testing.T) {
	p := newPending(3)
	for cycle := uint32(0); cycle < 10000; cycle++ {
		c := cycle % 3
		p.push(c)
		if got := p.pop(); got != c {
			t.Fatalf("cycle %d: pop -> %d want %d", cycle, got, c)
		}
	}
	// And with partial occupancy across the wrap.
	p.push(0)
	p.push(2)
	if p.pop() != 0 || p.pop() != 2 {
		t.Fatal("order lost after heavy cycling")
	}
}

func TestPendingPopEmptyPanics(t *testing.T) {
	p := newPending(2)
	defer func() {
		if recover() == nil {
			t.Fatal("pop on empty queue did not panic")
		}
	}()
	p.pop()
}

func TestPendingReAddAfterPop(t *testing.T) {
	p := newPending(2)
	p.push(1)
	if p.pop() != 1 {
		t.Fatal("pop mismatch")
	}
	p.push(1) // no longer a member, must be accepted
	if p.length() != 1 || !p.isMember(1) {
		t.Fatal("re-push after pop rejected")
	}
}
