package proximity

// offsetSeq is the canonical occurrence list for one query term. Cursors of
// duplicate term slots share a single offsetSeq and claim occurrences through
// the shared consumption index, so two slots can never hold the same physical
// occurrence. The offsets slice itself is never modified.
type offsetSeq struct {
	offsets []int
	next    int
}

// take claims the smallest unclaimed offset.
func (s *offsetSeq) take() (int, bool) {
	if s.next >= len(s.offsets) {
		return 0, false
	}
	v := s.offsets[s.next]
	s.next++
	return v, true
}

// offsetCursor is a forward-only cursor over one term slot's occurrence
// offsets. current is monotonically non-decreasing until exhaustion;
// seriesMax is fixed at construction to the largest offset of the original
// sequence and never changes as the cursor advances.
type offsetCursor struct {
	term      string
	seq       *offsetSeq
	current   int
	exhausted bool
	seriesMax int
}

// newOffsetCursor builds a cursor and claims its initial offset. A cursor
// over an empty sequence, or a duplicate-term cursor that finds all
// occurrences already claimed, starts out exhausted.
func newOffsetCursor(term string, seq *offsetSeq) *offsetCursor {
	c := &offsetCursor{term: term, seq: seq}
	if len(seq.offsets) > 0 {
		c.seriesMax = seq.offsets[len(seq.offsets)-1]
	}
	c.advance()
	return c
}

// Current returns the cursor's claimed offset, ok=false once exhausted.
func (c *offsetCursor) Current() (int, bool) {
	return c.current, !c.exhausted
}

// SeriesMax returns the largest offset the original sequence ever held.
func (c *offsetCursor) SeriesMax() int {
	return c.seriesMax
}

// advance discards the claimed offset and claims the next unclaimed one.
// Exhaustion is permanent.
func (c *offsetCursor) advance() (int, bool) {
	v, ok := c.seq.take()
	if !ok {
		c.exhausted = true
		return 0, false
	}
	c.current = v
	return v, true
}
