package retriever

import "math"

// Ranking metrics over article numbers, used to score a retrieval run
// against a set of articles known to answer the query.

// PrecisionAtK is the share of retrieved articles that are relevant.
func PrecisionAtK(retrieved, relevant []string) float64 {
	if len(retrieved) == 0 {
		return 0
	}
	return float64(hits(retrieved, relevant)) / float64(len(retrieved))
}

// RecallAtK is the share of relevant articles that were retrieved.
func RecallAtK(retrieved, relevant []string) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(hits(retrieved, relevant)) / float64(len(relevant))
}

// ReciprocalRank is 1/rank of the first relevant article, or 0 if none was retrieved.
func ReciprocalRank(retrieved, relevant []string) float64 {
	set := toSet(relevant)
	for i, r := range retrieved {
		if set[r] {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// NDCG compares the discounted gain of the retrieved order with the ideal one,
// using binary relevance.
func NDCG(retrieved, relevant []string) float64 {
	set := toSet(relevant)
	gains := make([]float64, len(retrieved))
	for i, r := range retrieved {
		if set[r] {
			gains[i] = 1
		}
	}

	ideal := make([]float64, min(len(set), len(retrieved)))
	for i := range ideal {
		ideal[i] = 1
	}

	idcg := dcg(ideal)
	if idcg == 0 {
		return 0
	}
	return dcg(gains) / idcg
}

func dcg(gains []float64) float64 {
	total := 0.0
	for i, g := range gains {
		total += g / math.Log2(float64(i+2))
	}
	return total
}

func hits(retrieved, relevant []string) int {
	set := toSet(relevant)
	n := 0
	for _, r := range retrieved {
		if set[r] {
			n++
		}
	}
	return n
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
