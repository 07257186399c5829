package dataset

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// TermMatrix is the TF-IDF weighting of the delay-reason column: one row per
// document, one column per vocabulary term. The pipeline logs its shape and
// discards it; it is a diagnostic, not an emitted feature.
type TermMatrix struct {
	Terms   []string
	Weights [][]float64
}

// Rows returns the document count.
func (m *TermMatrix) Rows() int { return len(m.Weights) }

// Cols returns the vocabulary size.
func (m *TermMatrix) Cols() int { return len(m.Terms) }

// tokenize lowercases and splits on non-alphanumeric runes, keeping tokens
// of at least two characters.
func tokenize(doc string) []string {
	fields := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, tok := range fields {
		if len(tok) >= 2 && !englishStopWords[tok] {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// VectorizeTFIDF fits a TF-IDF weighting over the documents and transforms
// them in the same pass. The vocabulary keeps at most maxTerms terms,
// ordered by total term frequency across the corpus with alphabetical
// tie-breaking. Weights use smooth idf, ln((1+n)/(1+df))+1, and each row is
// l2-normalized.
func VectorizeTFIDF(docs []string, maxTerms int) *TermMatrix {
	tokenized := make([][]string, len(docs))
	corpusCount := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			corpusCount[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	terms := make([]string, 0, len(corpusCount))
	for term := range corpusCount {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if corpusCount[terms[i]] != corpusCount[terms[j]] {
			return corpusCount[terms[i]] > corpusCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxTerms > 0 && len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}
	// Vocabulary is alphabetical once selected, so column order is stable.
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	weights := make([][]float64, len(docs))
	for i, tokens := range tokenized {
		row := make([]float64, len(terms))
		for _, tok := range tokens {
			if j, ok := index[tok]; ok {
				row[j]++
			}
		}
		var norm float64
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		weights[i] = row
	}

	return &TermMatrix{Terms: terms, Weights: weights}
}
