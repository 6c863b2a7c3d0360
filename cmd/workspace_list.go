package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glyph/internal/infrastructure/sqlite"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage saved workspaces",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workspaces at their latest revision",
	RunE:  runWorkspaceList,
}

func init() {
	workspaceCmd.AddCommand(workspaceListCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	store, err := sqlite.Open(cfg.WorkspaceDB)
	if err != nil {
		return fmt.Errorf("opening workspace store: %w", err)
	}
	defer func() { _ = store.Close() }()

	all, err := store.Workspaces().List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved workspaces")
		return nil
	}

	for _, ws := range all {
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s rev %-4d %s  %s\n",
			ws.Name, ws.Revision, ws.GUID, ws.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
