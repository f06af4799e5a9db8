package analysis

import (
	"math"
	"sort"
)

// Similarity is the cosine similarity of a and b. Mismatched lengths and
// zero-magnitude vectors yield 0.
func Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

type Scored[T any] struct {
	Item  T
	Score float64
}

// Rank keeps the items scoring strictly above threshold against query and
// orders them by descending score. Equal scores keep their input order.
func Rank[T any](query []float32, items []T, vector func(T) []float32, threshold float64) []Scored[T] {
	out := make([]Scored[T], 0, len(items))
	for _, item := range items {
		score := Similarity(query, vector(item))
		if score > threshold {
			out = append(out, Scored[T]{Item: item, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
