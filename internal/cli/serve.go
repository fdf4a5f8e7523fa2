package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cap113/internal/api"
	"cap113/internal/app"
)

var (
	serveAddr    string
	servePreload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat endpoint",
	Long: `Serve POST /api/chat. The body is {"messages":[{"role":"user","content":"..."}]}
and the reply is the plain-text answer.

Articles are embedded on the first request unless --preload is given.

Examples:
  cap113 serve
  cap113 serve --addr :8080 --preload`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&servePreload, "preload", false, "load and embed the corpus at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := GetLogger()

	comps, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if servePreload {
		go func() {
			if _, err := comps.Loader.Documents(ctx); err != nil {
				logger.Error("corpus preload failed", zap.Error(err))
			}
		}()
	}

	server := api.NewServer(addr, comps.Answer, logger.Named("api"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
