package cli

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"cap113/internal/app"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed all articles into the cache",
	Long: `Load every article file and embed it, filling the on-disk embedding cache.
Articles already in the cache are not sent to the provider again, so running
this before "serve" keeps the first request fast.

Examples:
  cap113 index
  cap113 index -d /srv/cap113`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	info, err := os.Stat(cfg.Corpus.Dir)
	if err != nil {
		return fmt.Errorf("article directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("article path is not a directory: %s", cfg.Corpus.Dir)
	}

	comps, err := app.New(cfg, GetLogger())
	if err != nil {
		return err
	}

	fmt.Printf("Embedding articles in %s...\n", cfg.Corpus.Dir)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	comps.Loader.SetProgress(func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		_ = bar.Set(processed)
	})

	start := time.Now()
	docs, err := comps.Loader.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Embedded %d articles in %s (cache: %s)\n",
		len(docs), time.Since(start).Round(time.Millisecond), cfg.Cache.Dir)
	return nil
}
