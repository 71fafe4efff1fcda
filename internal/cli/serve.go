package cli

import (
	"github.com/spf13/cobra"

	"github.com/maeri-project/timeloop/pkg/httpapi"
)

// serveCommand starts the chi-routed HTTP API over a loaded workload, for
// remote or parallel search drivers to query catalogs and materialize
// points without embedding the core themselves (spec §5).
func (c *CLI) serveCommand() *cobra.Command {
	var (
		f    loadFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve catalogs/construct over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, lg, err := loadLegal(cmd.Context(), f)
			if err != nil {
				return err
			}
			server := httpapi.New(lg, doc.Context, doc.Arch)
			c.Logger.Infof("serving on %s", addr)
			return server.ListenAndServe(cmd.Context(), addr)
		},
	}

	addLoadFlags(cmd, &f)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	return cmd
}
