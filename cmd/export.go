package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glyph/internal/engine/headless"
	"github.com/zjrosen/glyph/internal/flags"
	"github.com/zjrosen/glyph/internal/infrastructure/sqlite"
	"github.com/zjrosen/glyph/internal/tracing"
	"github.com/zjrosen/glyph/internal/workspace"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the demo session as a renderable spec",
	Long:  `Builds the demo editor session and exports it as a declarative specification. Clean by default; --dirty keeps editor-only fields and manipulator constructs.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().Bool("dirty", false, "keep editor-only fields and manipulators")
	exportCmd.Flags().StringP("output", "o", "", "write the spec to a file instead of stdout")
	exportCmd.Flags().String("save", "", "save the export as a workspace revision under this name")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	dirty, _ := cmd.Flags().GetBool("dirty")
	session := demoSession(headless.New())

	var out []byte
	if dirty {
		out, err = session.ManipulatorsJSON(ctx)
	} else {
		out, err = session.ExportJSON(ctx, true)
	}
	if err != nil {
		return fmt.Errorf("exporting spec: %w", err)
	}

	if name, _ := cmd.Flags().GetString("save"); name != "" {
		fr := flags.New(cfg.Flags)
		if !fr.Enabled(flags.FlagWorkspacePersistence) {
			return fmt.Errorf("workspace persistence is disabled; enable the %q flag", flags.FlagWorkspacePersistence)
		}
		store, err := sqlite.Open(cfg.WorkspaceDB)
		if err != nil {
			return fmt.Errorf("opening workspace store: %w", err)
		}
		defer func() { _ = store.Close() }()

		ws := &workspace.Workspace{Name: name, Spec: out}
		if err := store.Workspaces().Save(ws); err != nil {
			return fmt.Errorf("saving workspace: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved workspace %q revision %d\n", ws.Name, ws.Revision)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil { //nolint:gosec // G306: exported spec is not sensitive
			return fmt.Errorf("writing spec file: %w", err)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
