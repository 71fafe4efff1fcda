package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/maeri-project/timeloop/pkg/config"
	"github.com/maeri-project/timeloop/pkg/core/legalize"
)

// loadFlags is the set of flags shared by every command that builds a
// legalize.Legal from a configuration file.
type loadFlags struct {
	configPath string
	kMax       int
	strict     bool
}

func addLoadFlags(cmd *cobra.Command, f *loadFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "path to the workload/mapping/arch-spec TOML configuration (required)")
	cmd.Flags().IntVar(&f.kMax, "k-max", 0, "splitting rank-subset size bound (default: designspace.DefaultKMax)")
	cmd.Flags().BoolVar(&f.strict, "strict-id-bounds", false, "reject splitting_id/packing_id equal to the catalog size, tightening spec's literal '>' bound to '>='")
	_ = cmd.MarkFlagRequired("config")
}

// loadLegal parses f.configPath and returns an initialized Legal instance
// ready for CatalogSizes/GlobalSizes/Construct/Sequential. Building the
// splitting/packing catalogs (Init) is the one step every command pays for
// up front, so it runs behind a spinner rather than blocking silently.
func loadLegal(ctx context.Context, f loadFlags) (*config.Document, *legalize.Legal, error) {
	doc, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	lg := legalize.New(doc.Context, doc.Arch, doc.Mapping,
		legalize.WithKMax(f.kMax),
		legalize.WithStrictIDBounds(f.strict))

	sp := newSpinnerWithContext(ctx, "building splitting/packing catalogs")
	sp.Start()
	err = lg.Init(ctx)
	sp.Stop()
	if err != nil {
		return nil, nil, err
	}
	return doc, lg, nil
}
