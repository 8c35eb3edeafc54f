package index

// PostingEntry records one (document, field) occurrence of a term, together
// with the ascending token positions at which the term appeared. Positions
// are 0-based token offsets within the tokenized field content and are the
// raw feed for proximity (within) evaluation.
type PostingEntry struct {
	DocID         uint32 // Internal numeric ID for efficiency
	FieldName     string // The name of the field where the term was found (e.g., "title", "body")
	TermFrequency int    // Number of occurrences of the term in this field, len(Positions)
	Positions     []int  // Ascending token offsets of each occurrence
}

// PostingList is a slice of PostingEntry, sorted by DocID ascending then
// FieldName ascending so per-document lookups can scan contiguous runs.
type PostingList []PostingEntry
