package notify

import (
	"context"
	"testing"
	"time"
)

func TestDoorbellCoalesces(t *testing.T) {
	d := NewDoorbell()
	for i := 0; i < 10; i++ {
		d.Ring()
	}
	select {
	case <-d.Wait():
	default:
		t.Fatal("no wake pending after Ring")
	}
	select {
	case <-d.Wait():
		t.Fatal("burst of rings produced a second wake")
	default:
	}
}

func TestBoardCoalescesPerChannel(t *testing.T) {
	b := NewBoard(3)
	for i := 0; i < 5; i++ {
		b.Notify(2)
	}
	b.Notify(0)

	got := map[uint32]int{}
	for {
		ch, ok := b.TryRecv()
		if !ok {
			break
		}
		got[ch]++
	}
	if got[2] != 1 || got[0] != 1 || len(got) != 2 {
		t.Fatalf("dispatches = %v, want one each for channels 0 and 2", got)
	}
}

func TestBoardReRaiseAfterRecv(t *testing.T) {
	b := NewBoard(2)
	b.Notify(1)
	ctx := context.Background()
	if ch, ok := b.Recv(ctx); !ok || ch != 1 {
		t.Fatalf("recv -> %d %v", ch, ok)
	}
	// Notify after the wake was consumed must produce a fresh dispatch.
	b.Notify(1)
	if ch, ok := b.TryRecv(); !ok || ch != 1 {
		t.Fatalf("re-raise lost: %d %v", ch, ok)
	}
}

func TestBoardDropsOutOfRange(t *testing.T) {
	b := NewBoard(2)
	b.Notify(7)
	if _, ok := b.TryRecv(); ok {
		t.Fatal("out-of-range notify reached the stream")
	}
}

func TestRecvHonoursContext(t *testing.T) {
	b := NewBoard(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, ok := b.Recv(ctx); ok {
		t.Fatal("recv returned without a signal")
	}
}
