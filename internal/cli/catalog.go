package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// catalogCommand builds the splitting/packing catalogs for a configuration
// and prints per-slot and global cardinalities (spec §4.2).
func (c *CLI) catalogCommand() *cobra.Command {
	var f loadFlags

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build and print the splitting/packing design-space catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			doc, lg, err := loadLegal(cmd.Context(), f)
			if err != nil {
				return err
			}
			prog.done("catalog command ready")

			printNewline()
			printKeyValue("Levels", fmt.Sprintf("%d", len(doc.Arch)))
			printKeyValue("Dataspaces", fmt.Sprintf("%d", len(doc.Context.DataspaceOrder)))
			printNewline()

			for level := 0; level < len(doc.Arch); level++ {
				printInfo("%s (line capacity %d)", doc.Arch[level].Name, doc.Arch[level].LineCapacity())
				for _, ds := range doc.Context.DataspaceOrder {
					splitting, packing, err := lg.CatalogSizes(level, ds)
					if err != nil {
						return err
					}
					kind := "concordant"
					switch {
					case splitting > 0:
						kind = fmt.Sprintf("%d splitting options", splitting)
					case packing > 0:
						kind = fmt.Sprintf("%d packing options", packing)
					}
					printDetail("%-12s %s", ds, kind)
				}
			}

			splittingCandidates, packingCandidates, err := lg.GlobalSizes()
			if err != nil {
				return err
			}
			printNewline()
			printKeyValue("splitting_candidates", fmt.Sprintf("%d", splittingCandidates))
			printKeyValue("packing_candidates", fmt.Sprintf("%d", packingCandidates))
			return nil
		},
	}

	addLoadFlags(cmd, &f)
	return cmd
}
