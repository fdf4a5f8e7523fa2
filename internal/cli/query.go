package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cap113/internal/app"
	"cap113/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Show the articles closest to a question",
	Long: `Embed a question and list the most similar articles with their cosine scores.
No chat model is called.

Examples:
  cap113 query -q "minimum share capital"
  cap113 query -q "company name" --top-k 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	comps, err := app.New(cfg, GetLogger())
	if err != nil {
		return err
	}

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := usecase.NewRetrieveUseCase(comps.Retriever).Retrieve(cmd.Context(), queryText, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No articles found.")
		return nil
	}
	fmt.Printf("Found %d articles for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] Article %s – %s (score: %.4f) ---\n", i+1, r.Article, r.Title, r.Score)
		text := []rune(r.Text)
		if len(text) > 500 {
			text = append(text[:500], []rune("...")...)
		}
		fmt.Println(string(text))
		fmt.Println()
	}

	return nil
}
