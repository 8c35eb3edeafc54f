package proximity

import "testing"

func TestOffsetCursorBasics(t *testing.T) {
	seq := &offsetSeq{offsets: []int{2, 7, 11}}
	c := newOffsetCursor("quick", seq)

	if cur, ok := c.Current(); !ok || cur != 2 {
		t.Errorf("Current() = (%d, %v), want (2, true)", cur, ok)
	}
	if c.SeriesMax() != 11 {
		t.Errorf("SeriesMax() = %d, want 11", c.SeriesMax())
	}

	if next, ok := c.advance(); !ok || next != 7 {
		t.Errorf("advance() = (%d, %v), want (7, true)", next, ok)
	}
	if next, ok := c.advance(); !ok || next != 11 {
		t.Errorf("advance() = (%d, %v), want (11, true)", next, ok)
	}

	// SeriesMax never changes as the cursor advances.
	if c.SeriesMax() != 11 {
		t.Errorf("SeriesMax() after advancing = %d, want 11", c.SeriesMax())
	}

	if _, ok := c.advance(); ok {
		t.Error("advance() past the end should report exhaustion")
	}
	if _, ok := c.Current(); ok {
		t.Error("Current() after exhaustion should report no value")
	}
}

func TestOffsetCursorEmptySequence(t *testing.T) {
	c := newOffsetCursor("ghost", &offsetSeq{})
	if _, ok := c.Current(); ok {
		t.Error("cursor over an empty sequence should start exhausted")
	}
}

func TestOffsetCursorsShareConsumption(t *testing.T) {
	// Two cursors for a repeated query term read the same canonical
	// sequence but may never claim the same occurrence.
	seq := &offsetSeq{offsets: []int{3, 8, 9}}
	first := newOffsetCursor("echo", seq)
	second := newOffsetCursor("echo", seq)

	a, _ := first.Current()
	b, _ := second.Current()
	if a != 3 || b != 8 {
		t.Fatalf("shared cursors claimed (%d, %d), want (3, 8)", a, b)
	}

	if next, ok := first.advance(); !ok || next != 9 {
		t.Errorf("first.advance() = (%d, %v), want (9, true)", next, ok)
	}
	if _, ok := second.advance(); ok {
		t.Error("second.advance() should exhaust: all occurrences claimed")
	}
}

func TestOffsetCursorMonotonic(t *testing.T) {
	seq := &offsetSeq{offsets: []int{1, 4, 4, 10, 22}}
	c := newOffsetCursor("word", seq)

	prev, _ := c.Current()
	for {
		next, ok := c.advance()
		if !ok {
			break
		}
		if next < prev {
			t.Fatalf("cursor went backwards: %d after %d", next, prev)
		}
		prev = next
	}
}
