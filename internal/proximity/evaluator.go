package proximity

import (
	"github.com/proxima-io/go-proximity-engine/index"
)

// UnorderedEvaluator evaluates within(distance, term1, term2, ...) predicates
// for one candidate document: it returns true when the terms occur within
// the configured distance of each other, in any order, inside one of the
// configured fields.
//
// An evaluator holds no mutable state across calls, so one configuration
// (fields, distance, terms) may be shared by concurrent evaluations as long
// as each call gets its own offset data.
type UnorderedEvaluator struct {
	fields     map[string]struct{}
	distance   int
	termSource map[string]*index.TermFrequencyList
	terms      []string
}

// NewUnorderedEvaluator creates an evaluator for a field set, a distance
// bound, a per-term frequency-list source and the query's ordered term list
// (duplicates allowed).
func NewUnorderedEvaluator(fields []string, distance int, termSource map[string]*index.TermFrequencyList, terms ...string) *UnorderedEvaluator {
	fieldSet := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		fieldSet[f] = struct{}{}
	}
	return &UnorderedEvaluator{
		fields:     fieldSet,
		distance:   distance,
		termSource: termSource,
		terms:      terms,
	}
}

// Terms returns the query's term slots in order, duplicates included.
func (e *UnorderedEvaluator) Terms() []string {
	return e.terms
}

// Distance returns the evaluator's window bound.
func (e *UnorderedEvaluator) Distance() int {
	return e.distance
}

// Evaluate decides whether the supplied offset lists, one per term slot in
// term order, admit a window no wider than the distance bound. Missing or
// empty lists make the predicate unmatchable and return false; supplying
// strictly more lists than term slots is a contract violation and returns
// an error wrapping errors.ErrInvalidInput.
func (e *UnorderedEvaluator) Evaluate(offsets [][]int) (bool, error) {
	matcher, err := NewMatcher(e.distance, e.terms, offsets)
	if err != nil {
		return false, err
	}
	return matcher.FindMatch(), nil
}

// EvaluateDocument resolves the per-slot offset lists from the evaluator's
// term-frequency source and runs the sweep once per configured field. The
// predicate holds when any single field admits a qualifying window; offsets
// from different fields are never mixed, as their position spaces are
// unrelated.
func (e *UnorderedEvaluator) EvaluateDocument() (bool, error) {
	for field := range e.fields {
		offsets := make([][]int, len(e.terms))
		for i, term := range e.terms {
			if tfl := e.termSource[term]; tfl != nil {
				offsets[i] = tfl.ForField(field)
			}
		}

		matched, err := e.Evaluate(offsets)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
