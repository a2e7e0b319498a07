// Package textmine provides the tokenizer, TF-IDF vectorizer and cosine
// similarity used by the text and collusion detector.
package textmine

import (
	"math"
	"strings"
	"unicode"
)

// Vector is a sparse term -> weight map.
type Vector map[string]float64

// Tokenize lowercases, strips non-alphanumeric runes and drops tokens of
// length <= 2.
func Tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, t := range fields {
		if len(t) > 2 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Vectorize builds one TF-IDF vector per document over the shared corpus
// vocabulary. TF is count/totalTokens; IDF is ln(docs/(1+docsContaining)),
// smoothed so it never divides by zero (and may go negative for terms that
// appear everywhere).
func Vectorize(docs []string) []Vector {
	tokenized := make([][]string, len(docs))
	docFreq := make(map[string]int)
	for i, d := range docs {
		tokenized[i] = Tokenize(d)
		seen := make(map[string]bool)
		for _, t := range tokenized[i] {
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}

	n := float64(len(docs))
	vectors := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		v := make(Vector)
		if len(tokens) == 0 {
			vectors[i] = v
			continue
		}
		counts := make(map[string]int)
		for _, t := range tokens {
			counts[t]++
		}
		total := float64(len(tokens))
		for term, c := range counts {
			tf := float64(c) / total
			idf := math.Log(n / float64(1+docFreq[term]))
			v[term] = tf * idf
		}
		vectors[i] = v
	}
	return vectors
}

// Cosine returns the cosine similarity of two sparse vectors, 0 when either
// has zero norm.
func Cosine(a, b Vector) float64 {
	var dot float64
	// iterate the smaller map
	if len(b) < len(a) {
		a, b = b, a
	}
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

func norm(v Vector) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
