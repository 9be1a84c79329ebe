package floor

import (
	"sync"
	"testing"
)

func drainAll(d *DirtySet) [][2]int {
	var got [][2]int
	d.Drain(func(cx, cy int) { got = append(got, [2]int{cx, cy}) })
	return got
}

func TestDirtySetDedup(t *testing.T) {
	d := NewDirtySet(70, 50)
	for i := 0; i < 10; i++ {
		d.MarkDirty(5, 5)
	}
	d.MarkDirty(29, 29)
	d.MarkDirty(0, 0)

	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}
	got := drainAll(d)
	if len(got) != 1 || got[0] != [2]int{0, 0} {
		t.Errorf("drained %v, want [[0 0]]", got)
	}
	if n := d.Drain(func(int, int) { t.Error("second drain visited a chunk") }); n != 0 {
		t.Errorf("second Drain = %d, want 0", n)
	}
}

func TestDirtySetOrderAndBounds(t *testing.T) {
	d := NewDirtySet(70, 50)
	d.MarkDirty(69, 49) // (2, 1)
	d.MarkDirty(30, 0)  // (1, 0)
	d.MarkDirty(0, 30)  // (0, 1)
	d.MarkDirty(-1, 0)
	d.MarkDirty(0, -1)
	d.MarkDirty(70, 0)
	d.MarkDirty(0, 50)

	got := drainAll(d)
	want := [][2]int{{0, 1}, {1, 0}, {2, 1}}
	if len(got) != len(want) {
		t.Fatalf("drained %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDirtySetMarkDuringDrain(t *testing.T) {
	d := NewDirtySet(60, 30)
	d.MarkDirty(0, 0)

	n := d.Drain(func(cx, cy int) {
		d.MarkDirty(40, 0)
	})
	if n != 1 {
		t.Errorf("Drain = %d, want 1", n)
	}
	got := drainAll(d)
	if len(got) != 1 || got[0] != [2]int{1, 0} {
		t.Errorf("chunk marked during drain: got %v", got)
	}
}

func TestDirtySetReset(t *testing.T) {
	d := NewDirtySet(30, 30)
	d.MarkDirty(1, 1)
	d.Reset(90, 90)
	if d.Len() != 0 {
		t.Errorf("Reset left %d chunks", d.Len())
	}
	d.MarkDirty(89, 89)
	got := drainAll(d)
	if len(got) != 1 || got[0] != [2]int{2, 2} {
		t.Errorf("after Reset drained %v", got)
	}
}

func TestDirtySetConcurrent(t *testing.T) {
	d := NewDirtySet(300, 300)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := 0; x < 300; x += 7 {
				for y := 0; y < 300; y += 11 {
					d.MarkDirty(x, y)
				}
			}
		}()
	}
	wg.Wait()

	if n := d.Drain(func(int, int) {}); n != 100 {
		t.Errorf("Drain = %d, want 100 distinct chunks", n)
	}
}
