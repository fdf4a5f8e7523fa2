package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cap113/config"
	"cap113/internal/adapter/retriever"
	"cap113/internal/app"
	"cap113/internal/domain"
)

func main() {
	rootDir := flag.String("dir", ".", "Project directory holding cap113.yaml and the article files")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 10, "Number of results")
	expect := flag.String("expect", "", "Comma-separated article numbers that should be retrieved")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run ./cmd/benchmark -dir . -q \"query\" [-expect 4,5]")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding infrastructure (provider connection, cache)")
		fmt.Println("  2. Semantic similarity (query vs articles)")
		fmt.Println("  3. Synonym handling (finds related provisions)")
		os.Exit(1)
	}

	_ = godotenv.Load(filepath.Join(*rootDir, ".env"))

	cfg, err := config.LoadFromDir(*rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(*rootDir)

	a, err := app.New(cfg, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error wiring components: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	start := time.Now()
	docs, err := a.Loader.Documents(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Corpus not available: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SEMANTIC SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Articles embedded: %d (%s)\n", len(docs), time.Since(start).Round(time.Millisecond))
	fmt.Printf("Model: %s\n", a.Embedder.ModelName())
	if len(docs) > 0 {
		fmt.Printf("Dimension: %d\n", len(docs[0].Vector))
	}
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	results, err := a.Retriever.Search(ctx, *query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("Top %d semantic matches:\n\n", len(results))

	for i, r := range results {
		fmt.Printf("%d. [%s %.3f] Article %s - %s\n", i+1, rating(r.Score), r.Score, r.Document.ID, r.Document.Title)
		fmt.Printf("   %s\n\n", preview(r.Document.Text, 150))
	}

	avg, top := summarize(results)
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avg)
	fmt.Printf("  Top-1 similarity:   %.3f\n", top)
	fmt.Printf("  Status: %s\n", status(avg))

	relevant := parseExpected(*expect)
	if len(relevant) == 0 {
		return
	}

	retrieved := make([]string, len(results))
	for i, r := range results {
		retrieved[i] = r.Document.ID
	}

	fmt.Printf("\nRANKING METRICS (expected: %s):\n", strings.Join(relevant, ", "))
	fmt.Printf("  Precision@%d: %.3f\n", len(results), retriever.PrecisionAtK(retrieved, relevant))
	fmt.Printf("  Recall@%d:    %.3f\n", len(results), retriever.RecallAtK(retrieved, relevant))
	fmt.Printf("  MRR:          %.3f\n", retriever.ReciprocalRank(retrieved, relevant))
	fmt.Printf("  NDCG:         %.3f\n", retriever.NDCG(retrieved, relevant))
}

func parseExpected(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func rating(similarity float64) string {
	switch {
	case similarity > 0.7:
		return "HIGH"
	case similarity > 0.5:
		return "GOOD"
	case similarity > 0.3:
		return "OK"
	default:
		return "LOW"
	}
}

func status(avg float64) string {
	switch {
	case avg > 0.5:
		return "GOOD - semantic search working well"
	case avg > 0.3:
		return "OK - results are somewhat related"
	default:
		return "POOR - articles may need re-embedding"
	}
}

func summarize(results []domain.ScoredDocument) (avg, top float64) {
	if len(results) == 0 {
		return 0, 0
	}
	total := 0.0
	for _, r := range results {
		total += r.Score
	}
	return total / float64(len(results)), results[0].Score
}

func preview(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return text
}
