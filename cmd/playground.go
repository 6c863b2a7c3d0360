package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/glyph/internal/engine/headless"
	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/ui/playground"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Interactive monitor over a demo editor session",
	Long: `Playground builds the demo scene, parses it through the headless engine
and opens a terminal monitor showing live signal values and logs.

Keys: m cycles the editing mode, u re-renders the view, q quits.`,
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng := headless.New()
	session := demoSession(eng)
	defer session.Close()

	if err := session.Parse(ctx, cfg.Target); err != nil {
		return fmt.Errorf("parsing demo session: %w", err)
	}

	log.Info(log.CatUI, "playground starting")

	m := playground.New(ctx, session, eng)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
