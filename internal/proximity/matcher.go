// Package proximity implements unordered proximity matching: deciding
// whether some choice of one occurrence per query term fits inside a token
// window no wider than a given distance, in any order. It is the evaluation
// primitive behind within(distance, term1, term2, ...) predicates.
package proximity

import (
	"container/heap"

	"github.com/proxima-io/go-proximity-engine/internal/errors"
)

// cursorHeap is a min-heap of cursors keyed by their current offset. Cursor
// identity is the pointer, so two cursors with equal currents stay distinct
// entries; the key must be re-established by pop/push whenever a cursor
// advances.
type cursorHeap []*offsetCursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	a, _ := h[i].Current()
	b, _ := h[j].Current()
	return a < b
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x interface{}) { *h = append(*h, x.(*offsetCursor)) }

func (h *cursorHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// Matcher runs the streaming min-heap sweep for one evaluation. It is built
// fresh per candidate document and consumed by a single FindMatch call.
type Matcher struct {
	distance  int
	terms     []string
	queue     cursorHeap
	globalMax int
}

// NewMatcher builds the sweep state for a distance bound, the query's term
// slots (duplicates allowed) and one offset list per slot.
//
// Fewer offset lists than term slots yields a matcher that reports no match:
// insufficient data is an expected case, not an error. More offset lists
// than term slots is a caller bug and returns a validation error. A missing
// or empty list for any term also yields an unmatchable matcher. The offset
// lists are never modified; duplicate terms read from one canonical
// sequence through a shared consumption index, so repeated terms must match
// distinct occurrences.
func NewMatcher(distance int, terms []string, termOffsets [][]int) (*Matcher, error) {
	m := &Matcher{distance: distance, terms: terms}

	if len(terms) > len(termOffsets) {
		// Not enough data to ever satisfy the predicate; FindMatch
		// short-circuits on the empty queue.
		return m, nil
	}
	if len(terms) < len(termOffsets) {
		return nil, errors.NewValidationError("offsets", "more offset lists than query terms received")
	}

	seqs := make(map[string]*offsetSeq, len(terms))
	for i, term := range terms {
		seq, seen := seqs[term]
		if !seen {
			seq = &offsetSeq{offsets: termOffsets[i]}
			seqs[term] = seq
		}

		if len(seq.offsets) == 0 {
			m.queue = nil
			return m, nil
		}

		cursor := newOffsetCursor(term, seq)
		cur, ok := cursor.Current()
		if !ok {
			// A duplicate slot found every occurrence already claimed;
			// the predicate can never be satisfied.
			m.queue = nil
			return m, nil
		}

		if cur > m.globalMax || len(m.queue) == 0 {
			m.globalMax = cur
		}
		m.queue = append(m.queue, cursor)
	}

	heap.Init(&m.queue)
	return m, nil
}

// FindMatch reports whether a window of offsets, one per term slot, exists
// with max-min <= distance. The sweep repeatedly advances the cursor with
// the smallest current offset: that is the only move that can shrink the
// span. Two conditions bound the loop to at most the total number of
// offsets: the window closing around the smallest current, and a cursor
// whose largest-ever offset can no longer reach the running maximum.
//
// FindMatch consumes the matcher; it must not be called twice.
func (m *Matcher) FindMatch() bool {
	// Quick short-circuit: with fewer cursors than term slots the predicate
	// can never be satisfied. Also covers the unmatchable states left by
	// construction and the degenerate zero-term call.
	if len(m.queue) == 0 || len(m.terms) > m.queue.Len() {
		return false
	}

	for {
		cursor := heap.Pop(&m.queue).(*offsetCursor)
		cur, _ := cursor.Current()

		if m.globalMax-cur <= m.distance {
			return true
		}

		// If globalMax is more than distance beyond the largest value this
		// sequence will ever produce, no cursor can close the gap: this one
		// had the smallest current, so every other is even further ahead.
		if m.globalMax-cursor.SeriesMax() > m.distance {
			return false
		}

		next, ok := cursor.advance()
		if !ok { // ran out of occurrences for this term
			return false
		}

		if next > m.globalMax {
			m.globalMax = next
		}

		heap.Push(&m.queue, cursor)
	}
}
