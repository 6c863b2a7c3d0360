package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glyph/internal/engine/headless"
	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/vis"
	"github.com/zjrosen/glyph/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <spec.json>",
	Short: "Watch a spec file and re-parse it on change",
	Long:  `Parses the spec file through the headless engine and re-parses whenever the file changes, reporting parse errors as they appear.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !cfg.AutoReparse {
		return fmt.Errorf("auto_reparse is disabled in config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng := headless.New()
	parseOnce := func() {
		if err := parseSpecFile(ctx, eng, path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "parse error: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "parsed %s\n", path)
	}
	parseOnce()

	w, err := watcher.New(watcher.Config{
		SpecPath:    path,
		DebounceDur: cfg.AutoReparseDebounce,
	})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			log.Debug(log.CatWatch, "spec file changed", "path", path)
			parseOnce()
		}
	}
}

// parseSpecFile reads, decodes and parses a spec file, then renders one
// update pass through a throwaway view.
func parseSpecFile(ctx context.Context, eng *headless.Engine, path string) error {
	raw, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied spec path
	if err != nil {
		return fmt.Errorf("reading spec file: %w", err)
	}

	var spec vis.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("decoding spec file: %w", err)
	}

	eng.ResetTupleID()
	factory, err := eng.Parse(ctx, &spec)
	if err != nil {
		return err
	}
	view := factory(cfg.Target)
	view.Update()
	view.Destroy()
	return nil
}
