package index

import "sort"

// TermFrequencyList collects, for a single document, the ascending token
// offsets at which one term occurs in each field. It is the per-term source
// the proximity evaluator reads its raw offsets from; it never outlives the
// evaluation of the document it was built for.
type TermFrequencyList struct {
	Term    string
	Offsets map[string][]int // field name -> ascending token offsets
}

// NewTermFrequencyList creates an empty frequency list for term.
func NewTermFrequencyList(term string) *TermFrequencyList {
	return &TermFrequencyList{
		Term:    term,
		Offsets: make(map[string][]int),
	}
}

// AddOffsets records the occurrences of the term in one field. Offsets must
// be ascending; repeated calls for the same field merge and re-sort.
func (tfl *TermFrequencyList) AddOffsets(field string, offsets []int) {
	if len(offsets) == 0 {
		return
	}
	existing := tfl.Offsets[field]
	if len(existing) == 0 {
		tfl.Offsets[field] = append([]int(nil), offsets...)
		return
	}
	merged := append(existing, offsets...)
	sort.Ints(merged)
	tfl.Offsets[field] = merged
}

// ForField returns the ascending offsets for one field, or nil if the term
// never occurred there.
func (tfl *TermFrequencyList) ForField(field string) []int {
	return tfl.Offsets[field]
}

// Fields returns the names of the fields the term occurred in, in no
// particular order.
func (tfl *TermFrequencyList) Fields() []string {
	fields := make([]string, 0, len(tfl.Offsets))
	for field := range tfl.Offsets {
		fields = append(fields, field)
	}
	return fields
}
