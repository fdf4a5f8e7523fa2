package retriever

import "math"

// Epsilon keeps CosineSimilarity finite for zero vectors.
const Epsilon = 1e-8

// CosineSimilarity returns dot(a,b) / (|a|*|b| + Epsilon). Extra trailing
// components of the longer vector are ignored; SemanticRetriever logs when
// that happens.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dotProduct, normA, normB float64
	for i := 0; i < n; i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return dotProduct / (math.Sqrt(normA)*math.Sqrt(normB) + Epsilon)
}
