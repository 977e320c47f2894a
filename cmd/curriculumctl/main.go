// Package main is the entry point for curriculumctl, the offline companion of the
// curriculum API. It runs imports and category tree submissions against the configured
// database without going through HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/curriculum-api/internal/app"
	"github.com/noah-isme/curriculum-api/pkg/config"
	"github.com/noah-isme/curriculum-api/pkg/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var container *app.Container

var rootCmd = &cobra.Command{
	Use:     "curriculumctl",
	Short:   "Operate the curriculum store from the command line",
	Version: version,
	Long: `curriculumctl reconciles subject sheets and category trees into the curriculum
database using the same configuration as the API server (.env and environment).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logr, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		container, err = app.Build(cmd.Context(), cfg, logr)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return nil
		}
		_ = container.Logger.Sync()
		return container.Close()
	},
	SilenceUsage: true,
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if container != nil {
			container.Logger.Error("command failed", zap.Error(err))
		}
		stop()
		os.Exit(1)
	}
}
