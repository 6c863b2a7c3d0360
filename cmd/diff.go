package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glyph/internal/infrastructure/sqlite"
	"github.com/zjrosen/glyph/internal/specdiff"
)

var diffCmd = &cobra.Command{
	Use:   "diff <name> <rev1> <rev2>",
	Short: "Diff two saved workspace revisions",
	Args:  cobra.ExactArgs(3),
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	name := args[0]
	rev1, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid revision %q: %w", args[1], err)
	}
	rev2, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid revision %q: %w", args[2], err)
	}

	store, err := sqlite.Open(cfg.WorkspaceDB)
	if err != nil {
		return fmt.Errorf("opening workspace store: %w", err)
	}
	defer func() { _ = store.Close() }()

	a, err := store.Workspaces().FindRevision(name, rev1)
	if err != nil {
		return err
	}
	b, err := store.Workspaces().FindRevision(name, rev2)
	if err != nil {
		return err
	}

	segs, err := specdiff.Diff(a.Spec, b.Spec)
	if err != nil {
		return fmt.Errorf("diffing revisions: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), specdiff.Format(segs))
	return nil
}
