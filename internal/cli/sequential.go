package cli

import (
	"github.com/spf13/cobra"

	"github.com/maeri-project/timeloop/pkg/dump"
)

// sequentialCommand runs the non-enumerative fallback factorizer (spec
// §4.4), which greedily resolves every overflowing slot without
// consulting the catalogs.
func (c *CLI) sequentialCommand() *cobra.Command {
	var (
		f          loadFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "sequential",
		Short: "Resolve a single valid layout via the greedy sequential fallback",
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			doc, lg, err := loadLegal(cmd.Context(), f)
			if err != nil {
				return err
			}
			l, err := lg.Sequential()
			if err != nil {
				return err
			}
			prog.done("resolved sequential layout")
			printBlocks(dump.Blocks(l, doc.Context, doc.Arch), jsonOutput)
			return nil
		},
	}

	addLoadFlags(cmd, &f)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON instead of the dump format")
	return cmd
}
