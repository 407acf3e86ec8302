package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"txrecipe/internal/config"
	"txrecipe/internal/executor"
	"txrecipe/internal/recipe"
)

const defaultRecipe = "txAdminRecipe.yaml"

var (
	outputDir    string
	verbose      bool
	dryRun       bool
	settingsPath string
)

var rootCmd = &cobra.Command{
	Use:   "txrecipe [recipe.yaml]",
	Short: "Replay a txAdmin recipe against a local directory",
	Long: `txrecipe interprets a txAdmin recipe (an ordered list of tasks) and
materializes the server deployment tree it describes: cloning GitHub
repositories at specific refs, downloading files, extracting archives,
and moving paths. With --dry-run it previews the directory skeleton
without touching the network or version control.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRecipe,
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "./fivem-server", "output directory for the server files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "create folder structure without cloning or downloading")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "txrecipe.toml", "processor settings file")
	rootCmd.AddCommand(checkCmd)
}

func recipePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultRecipe
}

// setupLogging routes diagnostics to stderr. Warnings and errors are
// always shown; informational steps only with --verbose.
func setupLogging(dryRun bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if dryRun {
		logger = logger.With("dry_run", true)
	}
	slog.SetDefault(logger)
}

func runRecipe(cmd *cobra.Command, args []string) error {
	setupLogging(dryRun)

	path := recipePath(args)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("recipe file not found: %s", path)
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	rec, err := recipe.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()
	go func() {
		sig := <-sigChan
		slog.Warn("interrupt received, cleaning up...", "signal", sig)
		cancel()
	}()

	orch, err := executor.New(outputDir, settings, verbose, dryRun)
	if err != nil {
		return err
	}

	result := orch.Run(ctx, rec)
	if result.Cancelled {
		return errors.New("run interrupted")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
