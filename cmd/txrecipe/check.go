package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"txrecipe/internal/config"
	"txrecipe/internal/fetch"
	"txrecipe/internal/models"
	"txrecipe/internal/recipe"
)

var (
	checkRemote      bool
	checkConcurrency int
)

var checkCmd = &cobra.Command{
	Use:   "check [recipe.yaml]",
	Short: "Validate a recipe without executing it",
	Long: `check loads a recipe, validates every task against its action schema,
and classifies version-control refs. With --remote it additionally
probes the download and repository URLs over HTTP. It never mutates
the filesystem.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkRemote, "remote", false, "probe remote URLs for reachability")
	checkCmd.Flags().IntVar(&checkConcurrency, "concurrency", 4, "concurrent remote probes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	rec, err := recipe.Load(recipePath(args))
	if err != nil {
		return err
	}

	validator, err := recipe.NewValidator()
	if err != nil {
		return err
	}

	fmt.Printf("Recipe: %s (%d task slots)\n", rec.Name, len(rec.Tasks))

	var invalid, disabled int
	var remoteURLs []string

	for i, task := range rec.Tasks {
		idx := i + 1
		if task == nil {
			disabled++
			continue
		}

		if err := validator.ValidateTask(task); err != nil {
			invalid++
			fmt.Printf("  [%d] %s: %v\n", idx, task.Action, err)
			continue
		}

		switch task.Action {
		case models.ActionDownloadGithub:
			ref := task.Ref
			if ref == "" {
				ref = "main"
			}
			kind := "branch/tag"
			if fetch.ClassifyRef(ref) == fetch.RefCommitHash {
				kind = "commit hash"
			}
			fmt.Printf("  [%d] %s: %s @ %s (%s)\n", idx, task.Action, task.Src, ref, kind)
			if task.Src != fetch.PlaceholderURL {
				remoteURLs = append(remoteURLs, task.Src)
			}
		case models.ActionDownloadFile:
			fmt.Printf("  [%d] %s: %s\n", idx, task.Action, task.URL)
			remoteURLs = append(remoteURLs, task.URL)
		default:
			fmt.Printf("  [%d] %s: ok\n", idx, task.Action)
		}
	}

	if disabled > 0 {
		fmt.Printf("%d disabled task slot(s)\n", disabled)
	}

	if checkRemote && len(remoteURLs) > 0 {
		settings, err := config.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
		engine := fetch.NewEngine(settings, "")

		fmt.Printf("Probing %d remote URL(s)...\n", len(remoteURLs))
		failures := engine.ProbeURLs(cmd.Context(), remoteURLs, checkConcurrency)
		for url, probeErr := range failures {
			fmt.Fprintf(os.Stderr, "  unreachable: %s (%v)\n", url, probeErr)
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d remote URL(s) unreachable", len(failures))
		}
	}

	if invalid > 0 {
		return fmt.Errorf("recipe has %d invalid task(s)", invalid)
	}

	fmt.Println("Recipe is valid.")
	return nil
}
