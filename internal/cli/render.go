package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/maeri-project/timeloop/pkg/vizdot"
)

// renderCommand renders the loop nest or the enumerated catalog lattice as
// Graphviz DOT or SVG (SPEC_FULL.md's domain-stack expansion, grounded on
// the teacher's DOT/SVG renderers).
func (c *CLI) renderCommand() *cobra.Command {
	var (
		f       loadFlags
		target  string
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the loop nest or the design-space catalogs as DOT/SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, lg, err := loadLegal(cmd.Context(), f)
			if err != nil {
				return err
			}

			var dot string
			switch target {
			case "nest":
				dot = vizdot.NestDOT(doc.Mapping, doc.Arch)
			case "catalogs":
				cat, err := lg.Catalogs()
				if err != nil {
					return err
				}
				dot = vizdot.CatalogDOT(cat)
			default:
				printError("unknown render target %q (want nest or catalogs)", target)
				os.Exit(1)
			}

			var out []byte
			switch format {
			case "dot":
				out = []byte(dot)
			case "svg":
				out, err = vizdot.RenderSVG(dot)
				if err != nil {
					return err
				}
			default:
				printError("unknown render format %q (want dot or svg)", format)
				os.Exit(1)
			}

			if outPath == "" {
				os.Stdout.Write(out)
				return nil
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s render to %s", target, outPath)
			return nil
		},
	}

	addLoadFlags(cmd, &f)
	cmd.Flags().StringVar(&target, "target", "nest", "what to render: nest or catalogs")
	cmd.Flags().StringVar(&format, "format", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
