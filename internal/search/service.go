package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/index"
	"github.com/proxima-io/go-proximity-engine/internal/errors"
	"github.com/proxima-io/go-proximity-engine/internal/metrics"
	"github.com/proxima-io/go-proximity-engine/internal/proximity"
	"github.com/proxima-io/go-proximity-engine/internal/tokenizer"
	"github.com/proxima-io/go-proximity-engine/services"
	"github.com/proxima-io/go-proximity-engine/store"
)

const (
	defaultPageSize = 10
	defaultWorkers  = 4
)

// Service implements the search logic for a single index: AND-intersection
// of query terms plus optional within(distance, terms...) proximity
// evaluation per candidate document.
// It fulfills the services.Searcher interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      *config.IndexSettings
	workers       int
	metrics       *metrics.Metrics
}

// NewService creates a new search Service.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings *config.IndexSettings) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		settings:      settings,
		workers:       defaultWorkers,
	}, nil
}

// SetWorkers bounds the number of concurrent per-document proximity
// evaluations. Values below 1 are ignored.
func (s *Service) SetWorkers(n int) {
	if n >= 1 {
		s.workers = n
	}
}

// SetMetrics attaches the engine's metric collectors. A nil receiver value
// disables recording.
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Search performs a search operation based on the query.
//
// Free query terms use AND semantics. When a proximity clause is present its
// terms are required as well, and each candidate document is additionally
// evaluated for a window of at most the clause's distance within a single
// searchable field.
func (s *Service) Search(query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	effectiveFields, err := s.effectiveSearchableFields(query.RestrictFields)
	if err != nil {
		s.recordQuery("error")
		return services.SearchResult{}, err
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	freeTokens := tokenizer.Tokenize(query.QueryString)

	var proximitySlots []string
	distance := 0
	if query.Proximity != nil {
		proximitySlots, err = s.normalizeProximityTerms(query.Proximity.Terms)
		if err != nil {
			s.recordQuery("error")
			return services.SearchResult{}, err
		}
		distance, err = s.effectiveDistance(query.Proximity.Distance)
		if err != nil {
			s.recordQuery("error")
			return services.SearchResult{}, err
		}
	}

	queryUUID := uuid.New().String()
	emptyResult := services.SearchResult{
		Hits: []services.HitResult{}, Total: 0, Page: page, PageSize: pageSize,
		Took: time.Since(startTime).Milliseconds(), QueryId: queryUUID,
	}

	if len(freeTokens) == 0 && len(proximitySlots) == 0 {
		s.recordQuery("zero_result")
		return emptyResult, nil
	}

	// Same acquisition order as the indexing service.
	s.documentStore.Mu.RLock()
	s.invertedIndex.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	defer s.invertedIndex.Mu.RUnlock()

	requiredTerms := distinctTerms(freeTokens, proximitySlots)
	candidates := s.intersectCandidates(requiredTerms, effectiveFields)
	if len(candidates) == 0 {
		s.recordQuery("zero_result")
		emptyResult.Took = time.Since(startTime).Milliseconds()
		return emptyResult, nil
	}

	hits, err := s.evaluateCandidates(candidates, proximitySlots, distance, effectiveFields)
	if err != nil {
		s.recordQuery("error")
		return services.SearchResult{}, err
	}

	// Deterministic order: no relevance scoring here, so sort by external ID.
	sort.Slice(hits, func(i, j int) bool { return hits[i].externalID < hits[j].externalID })

	finalHits := make([]services.HitResult, 0, len(hits))
	for _, ch := range hits {
		finalHits = append(finalHits, services.HitResult{
			Document:      ch.doc,
			MatchedFields: ch.matchedFields,
		})
	}

	totalHits := len(finalHits)
	startIndex := (page - 1) * pageSize
	endIndex := startIndex + pageSize
	var paginatedHits []services.HitResult
	if startIndex < totalHits {
		if endIndex > totalHits {
			endIndex = totalHits
		}
		paginatedHits = finalHits[startIndex:endIndex]
	} else {
		paginatedHits = []services.HitResult{}
	}

	if totalHits == 0 {
		s.recordQuery("zero_result")
	} else {
		s.recordQuery("hit")
	}
	if s.metrics != nil {
		s.metrics.SearchLatency.Observe(time.Since(startTime).Seconds())
	}

	return services.SearchResult{
		Hits:     paginatedHits,
		Total:    totalHits,
		Page:     page,
		PageSize: pageSize,
		Took:     time.Since(startTime).Milliseconds(),
		QueryId:  queryUUID,
	}, nil
}

// effectiveSearchableFields intersects the query's field restriction with
// the index's configured searchable fields.
func (s *Service) effectiveSearchableFields(restrict []string) ([]string, error) {
	if len(restrict) == 0 {
		return s.settings.SearchableFields, nil
	}

	configuredFields := make(map[string]bool, len(s.settings.SearchableFields))
	for _, field := range s.settings.SearchableFields {
		configuredFields[field] = true
	}
	for _, restrictedField := range restrict {
		if !configuredFields[restrictedField] {
			return nil, errors.NewValidationError("restrict_fields",
				fmt.Sprintf("field '%s' is not configured as a searchable field in index settings", restrictedField))
		}
	}
	return restrict, nil
}

// normalizeProximityTerms runs each proximity term through the tokenizer so
// it matches indexed terms. A term that tokenizes to nothing, or to more
// than one token, cannot name a single indexed term.
func (s *Service) normalizeProximityTerms(terms []string) ([]string, error) {
	if len(terms) == 0 {
		return nil, errors.NewValidationError("proximity.terms", "cannot be empty")
	}
	slots := make([]string, len(terms))
	for i, raw := range terms {
		tokens := tokenizer.Tokenize(raw)
		if len(tokens) != 1 {
			return nil, errors.NewValidationError("proximity.terms",
				fmt.Sprintf("'%s' does not normalize to a single term", raw))
		}
		slots[i] = tokens[0]
	}
	return slots, nil
}

// effectiveDistance applies the index default and cap to a requested
// distance.
func (s *Service) effectiveDistance(requested int) (int, error) {
	if requested < 0 {
		return 0, errors.NewValidationError("proximity.distance", "cannot be negative")
	}
	distance := requested
	if distance == 0 {
		distance = s.settings.DefaultDistance
	}
	if s.settings.MaxDistance > 0 && distance > s.settings.MaxDistance {
		return 0, errors.NewValidationError("proximity.distance",
			fmt.Sprintf("%d exceeds the index maximum of %d", distance, s.settings.MaxDistance))
	}
	return distance, nil
}

func distinctTerms(freeTokens, proximitySlots []string) []string {
	seen := make(map[string]struct{}, len(freeTokens)+len(proximitySlots))
	var terms []string
	for _, t := range freeTokens {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			terms = append(terms, t)
		}
	}
	for _, t := range proximitySlots {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			terms = append(terms, t)
		}
	}
	return terms
}

// intersectCandidates returns the sorted internal IDs of documents that
// contain every required term in at least one of the allowed fields.
// Callers must hold the inverted index read lock.
func (s *Service) intersectCandidates(requiredTerms, fields []string) []uint32 {
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}

	var intersection map[uint32]bool
	for _, term := range requiredTerms {
		docsForTerm := make(map[uint32]bool)
		for _, entry := range s.invertedIndex.Index[term] {
			if allowed[entry.FieldName] {
				docsForTerm[entry.DocID] = true
			}
		}
		if intersection == nil {
			intersection = docsForTerm
		} else {
			for docID := range intersection {
				if !docsForTerm[docID] {
					delete(intersection, docID)
				}
			}
		}
		if len(intersection) == 0 {
			return nil
		}
	}

	candidates := make([]uint32, 0, len(intersection))
	for docID := range intersection {
		candidates = append(candidates, docID)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates
}

// evaluateCandidates runs the per-document proximity evaluation, fanned out
// across a bounded worker pool. Each evaluation builds its own offset data,
// so candidates are independent. Callers must hold both read locks.
func (s *Service) evaluateCandidates(candidates []uint32, proximitySlots []string, distance int, fields []string) ([]*candidateHit, error) {
	externalIDs := s.externalIDsByInternal()

	results := make([]*candidateHit, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, docID := range candidates {
		i, docID := i, docID
		g.Go(func() error {
			doc, found := s.documentStore.Docs[docID]
			if !found {
				// Candidate came from the inverted index but the document
				// is gone; treat as a non-hit.
				return nil
			}

			hit := &candidateHit{externalID: externalIDs[docID], doc: doc}
			if len(proximitySlots) == 0 {
				results[i] = hit
				return nil
			}

			matchedFields, err := s.evaluateProximity(docID, proximitySlots, distance, fields)
			if err != nil {
				return err
			}
			if len(matchedFields) > 0 {
				hit.matchedFields = matchedFields
				results[i] = hit
				s.recordEvaluation("match")
			} else {
				s.recordEvaluation("no_match")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hits := make([]*candidateHit, 0, len(candidates))
	for _, r := range results {
		if r != nil {
			hits = append(hits, r)
		}
	}
	return hits, nil
}

// evaluateProximity builds the per-term frequency lists for one document and
// runs the within evaluation field by field, returning the fields (sorted)
// in which a qualifying window exists.
func (s *Service) evaluateProximity(docID uint32, slots []string, distance int, fields []string) ([]string, error) {
	source := make(map[string]*index.TermFrequencyList, len(slots))
	for _, term := range slots {
		if _, seen := source[term]; seen {
			continue
		}
		tfl := index.NewTermFrequencyList(term)
		for _, entry := range s.postingsForDoc(term, docID) {
			tfl.AddOffsets(entry.FieldName, entry.Positions)
		}
		source[term] = tfl
	}

	evaluator := proximity.NewUnorderedEvaluator(fields, distance, source, slots...)

	var matched []string
	for _, field := range fields {
		offsets := make([][]int, len(slots))
		for i, term := range slots {
			offsets[i] = source[term].ForField(field)
		}
		ok, err := evaluator.Evaluate(offsets)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, field)
		}
	}
	sort.Strings(matched)
	return matched, nil
}

// postingsForDoc returns the entries of one document in a term's posting
// list, relying on the DocID-ascending sort order.
func (s *Service) postingsForDoc(term string, docID uint32) []index.PostingEntry {
	postingList := s.invertedIndex.Index[term]
	start := sort.Search(len(postingList), func(i int) bool {
		return postingList[i].DocID >= docID
	})
	end := start
	for end < len(postingList) && postingList[end].DocID == docID {
		end++
	}
	return postingList[start:end]
}

func (s *Service) externalIDsByInternal() map[uint32]string {
	out := make(map[uint32]string, len(s.documentStore.ExternalIDtoInternalID))
	for ext, internal := range s.documentStore.ExternalIDtoInternalID {
		out[internal] = ext
	}
	return out
}

func (s *Service) recordQuery(outcome string) {
	if s.metrics != nil {
		s.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) recordEvaluation(result string) {
	if s.metrics != nil {
		s.metrics.ProximityEvaluationsTotal.WithLabelValues(result).Inc()
	}
}
