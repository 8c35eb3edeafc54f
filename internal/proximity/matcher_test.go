package proximity

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	internalErrors "github.com/proxima-io/go-proximity-engine/internal/errors"
)

func findMatch(t *testing.T, distance int, terms []string, offsets [][]int) bool {
	t.Helper()
	m, err := NewMatcher(distance, terms, offsets)
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}
	return m.FindMatch()
}

func TestFindMatchScenarios(t *testing.T) {
	testCases := []struct {
		name     string
		distance int
		terms    []string
		offsets  [][]int
		want     bool
	}{
		{
			name:     "quick brown fox within 2",
			distance: 2,
			terms:    []string{"quick", "brown", "fox"},
			offsets:  [][]int{{1}, {2}, {3}},
			want:     true, // span 3-1 = 2 <= 2
		},
		{
			name:     "quick brown fox within 1",
			distance: 1,
			terms:    []string{"quick", "brown", "fox"},
			offsets:  [][]int{{1}, {2}, {3}},
			want:     false, // three terms can never fit a span of 1
		},
		{
			name:     "no pairing close enough",
			distance: 3,
			terms:    []string{"a", "b"},
			offsets:  [][]int{{5, 9}, {1}},
			want:     false, // best pairings are |5-1|=4 and |9-1|=8
		},
		{
			name:     "later occurrence closes the window",
			distance: 3,
			terms:    []string{"a", "b"},
			offsets:  [][]int{{5, 9}, {6}},
			want:     true, // |6-5| = 1
		},
		{
			name:     "empty sequence",
			distance: 100,
			terms:    []string{"a"},
			offsets:  [][]int{{}},
			want:     false,
		},
		{
			name:     "single term always matches itself",
			distance: 0,
			terms:    []string{"solo"},
			offsets:  [][]int{{42}},
			want:     true,
		},
		{
			name:     "zero distance needs identical offsets",
			distance: 0,
			terms:    []string{"a", "b"},
			offsets:  [][]int{{4, 7}, {7}},
			want:     true,
		},
		{
			name:     "window closes deep into long sequences",
			distance: 1,
			terms:    []string{"a", "b"},
			offsets:  [][]int{{1, 10, 20, 30}, {5, 15, 29}},
			want:     true, // 30 and 29
		},
		{
			name:     "nil sequence for one term",
			distance: 10,
			terms:    []string{"a", "b"},
			offsets:  [][]int{{1, 2}, nil},
			want:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := findMatch(t, tc.distance, tc.terms, tc.offsets); got != tc.want {
				t.Errorf("FindMatch() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFindMatchInsufficientOffsets(t *testing.T) {
	// Fewer offset lists than terms is expected missing data, not an error.
	m, err := NewMatcher(5, []string{"a", "b", "c"}, [][]int{{1}, {2}})
	if err != nil {
		t.Fatalf("NewMatcher() error = %v, want nil", err)
	}
	if m.FindMatch() {
		t.Error("FindMatch() = true with fewer offset lists than terms, want false")
	}
}

func TestNewMatcherCountMismatch(t *testing.T) {
	// More offset lists than terms is a caller bug and must surface as an
	// invalid-argument error, never as a boolean.
	_, err := NewMatcher(5, []string{"a"}, [][]int{{1}, {2}})
	if err == nil {
		t.Fatal("NewMatcher() with extra offset lists, want error, got nil")
	}
	if !errors.Is(err, internalErrors.ErrInvalidInput) {
		t.Errorf("NewMatcher() error = %v, want ErrInvalidInput", err)
	}
}

func TestFindMatchZeroTerms(t *testing.T) {
	if findMatch(t, 10, nil, nil) {
		t.Error("FindMatch() with no terms should report no match")
	}
}

func TestFindMatchDuplicateTerms(t *testing.T) {
	t.Run("distinct occurrences available", func(t *testing.T) {
		// Both slots for "echo" must claim different occurrences: 3 and 8.
		got := findMatch(t, 5, []string{"echo", "echo"}, [][]int{{3, 8}, {3, 8}})
		if !got {
			t.Error("FindMatch() = false, want true (3 and 8 fit a window of 5)")
		}
	})

	t.Run("distinct occurrences too far apart", func(t *testing.T) {
		got := findMatch(t, 4, []string{"echo", "echo"}, [][]int{{3, 8}, {3, 8}})
		if got {
			t.Error("FindMatch() = true, want false (3 and 8 span 5 > 4)")
		}
	})

	t.Run("single occurrence cannot serve two slots", func(t *testing.T) {
		got := findMatch(t, 100, []string{"echo", "echo"}, [][]int{{3}, {3}})
		if got {
			t.Error("FindMatch() = true, want false (one occurrence, two slots)")
		}
	})

	t.Run("duplicates mixed with other terms", func(t *testing.T) {
		got := findMatch(t, 3, []string{"a", "b", "a"}, [][]int{{1, 4}, {2}, {1, 4}})
		if !got {
			t.Error("FindMatch() = false, want true (1, 2, 4 span 3)")
		}
	})
}

// bruteForceMatch checks every assignment of one offset per list.
func bruteForceMatch(distance int, offsets [][]int) bool {
	for _, list := range offsets {
		if len(list) == 0 {
			return false
		}
	}

	var walk func(i, min, max int) bool
	walk = func(i, min, max int) bool {
		if i == len(offsets) {
			return max-min <= distance
		}
		for _, v := range offsets[i] {
			nmin, nmax := min, max
			if i == 0 {
				nmin, nmax = v, v
			} else {
				if v < nmin {
					nmin = v
				}
				if v > nmax {
					nmax = v
				}
			}
			if walk(i+1, nmin, nmax) {
				return true
			}
		}
		return false
	}
	return walk(0, 0, 0)
}

func TestFindMatchAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	terms := []string{"t0", "t1", "t2", "t3"}
	for i := 0; i < 500; i++ {
		k := 1 + rng.Intn(4)
		offsets := make([][]int, k)
		for j := range offsets {
			n := rng.Intn(6)
			list := make([]int, n)
			seen := make(map[int]bool)
			for x := 0; x < n; x++ {
				v := rng.Intn(25)
				for seen[v] {
					v = rng.Intn(25)
				}
				seen[v] = true
				list[x] = v
			}
			sort.Ints(list)
			offsets[j] = list
		}
		distance := rng.Intn(12)

		got := findMatch(t, distance, terms[:k], offsets)
		want := bruteForceMatch(distance, offsets)
		if got != want {
			t.Fatalf("case %d: FindMatch() = %v, brute force = %v (distance=%d, offsets=%v)",
				i, got, want, distance, offsets)
		}
	}
}

func TestFindMatchDistanceMonotonic(t *testing.T) {
	// If the predicate holds at distance d it must hold for every d' > d.
	offsets := [][]int{{2, 9, 17}, {5, 14}, {7, 21}}
	terms := []string{"a", "b", "c"}

	matchedAt := -1
	for d := 0; d <= 25; d++ {
		got := findMatch(t, d, terms, offsets)
		if got && matchedAt < 0 {
			matchedAt = d
		}
		if !got && matchedAt >= 0 {
			t.Fatalf("match at distance %d but not at %d", matchedAt, d)
		}
	}
	if matchedAt < 0 {
		t.Fatal("expected a match at some distance")
	}
}
