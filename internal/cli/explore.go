package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/maeri-project/timeloop/internal/explorer"
)

// exploreCommand launches the interactive terminal browser over a loaded
// workload's design-space catalogs.
func (c *CLI) exploreCommand() *cobra.Command {
	var f loadFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Interactively browse the splitting/packing catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, lg, err := loadLegal(cmd.Context(), f)
			if err != nil {
				return err
			}
			model, err := explorer.New(lg, doc.Arch)
			if err != nil {
				return err
			}
			program := tea.NewProgram(model)
			_, err = program.Run()
			return err
		},
	}

	addLoadFlags(cmd, &f)
	return cmd
}
