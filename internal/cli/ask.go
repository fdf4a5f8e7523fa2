package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cap113/internal/app"
	"cap113/internal/domain"
)

var askQuestion string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a single question",
	Long: `Answer one question the same way the chat endpoint does and print the reply.

Examples:
  cap113 ask -q "Can a private company offer shares to the public?"`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "query", "q", "", "question (required)")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	comps, err := app.New(GetConfig(), GetLogger())
	if err != nil {
		return err
	}

	answer, err := comps.Answer.Answer(cmd.Context(), []domain.Message{
		{Role: domain.RoleUser, Content: askQuestion},
	})
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}
