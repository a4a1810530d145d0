// Package score ranks stored vectors against a query vector.
package score

import (
	"math"
	"sort"

	"askpdf/internal/domain"
)

// Similarity returns a higher-is-better score of b against a under distance.
// Euclid scores are negated distances. Vectors of different length score 0.
func Similarity(distance domain.Distance, a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	switch distance {
	case domain.DistanceDot:
		return dot(a, b)
	case domain.DistanceEuclid:
		sum := 0.0
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return -math.Sqrt(sum)
	default:
		var na, nb float64
		for i := range a {
			na += a[i] * a[i]
			nb += b[i] * b[i]
		}
		denom := math.Sqrt(na) * math.Sqrt(nb)
		if denom == 0 {
			return 0
		}
		return dot(a, b) / denom
	}
}

// TopK sorts results by descending score and keeps at most k of them.
// Ties keep insertion order.
func TopK(results []domain.SearchResult, k int) []domain.SearchResult {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
