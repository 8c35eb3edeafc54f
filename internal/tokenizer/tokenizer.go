package tokenizer

import (
	"regexp"
	"strings"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Token is a term together with the 0-based token offset at which it
// occurred in the original text. Offsets count tokens, not bytes, so they
// are directly comparable in proximity windows.
type Token struct {
	Term     string
	Position int
}

// Tokenize converts a string into a slice of terms.
// It lowercases the string and splits by non-alphanumeric characters.
func Tokenize(text string) []string {
	lowerText := strings.ToLower(text)

	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" { // Filter out empty strings
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// TokenizeWithPositions tokenizes like Tokenize but keeps each term's token
// offset. The positions of a given term are ascending in the result, which
// is the ordering the proximity sweep relies on.
func TokenizeWithPositions(text string) []Token {
	terms := Tokenize(text)

	tokens := make([]Token, len(terms))
	for i, term := range terms {
		tokens[i] = Token{Term: term, Position: i}
	}
	return tokens
}

// PositionsByTerm groups the token offsets of a text by term. Each offset
// list is ascending.
func PositionsByTerm(text string) map[string][]int {
	positions := make(map[string][]int)
	for _, tok := range TokenizeWithPositions(text) {
		positions[tok.Term] = append(positions[tok.Term], tok.Position)
	}
	return positions
}
