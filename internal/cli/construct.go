package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/maeri-project/timeloop/pkg/cache"
	"github.com/maeri-project/timeloop/pkg/dump"
	"github.com/maeri-project/timeloop/pkg/errors"
)

// constructCommand materializes the layout at a single (splitting_id,
// packing_id) point and prints it in the dump format (spec §4.3, §6).
func (c *CLI) constructCommand() *cobra.Command {
	var (
		f           loadFlags
		splittingID uint64
		packingID   uint64
		noCache     bool
		redisAddr   string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "construct",
		Short: "Materialize the layout at a (splitting_id, packing_id) point",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, lg, err := loadLegal(cmd.Context(), f)
			if err != nil {
				return err
			}

			backend, cerr := newCache(noCache, redisAddr)
			if cerr != nil {
				return cerr
			}
			defer backend.Close()
			keyer := cache.NewDefaultKeyer()
			digest := cache.Digest(doc.Context, doc.Mapping, doc.Arch)
			key := keyer.ConstructKey(digest, splittingID, packingID)

			ctx := cmd.Context()
			if payload, hit, err := backend.Get(ctx, key); err == nil && hit {
				blocks, err := dump.UnmarshalJSON(payload)
				if err != nil {
					return err
				}
				printBlocks(blocks, jsonOutput)
				printCacheStatus(true)
				return nil
			}

			l, err := lg.Construct(ctx, splittingID, packingID)
			if err != nil {
				if errors.GetCode(err) == errors.ErrCodeIDOutOfRange || errors.GetCode(err) == errors.ErrCodeOptionInapplicable {
					printError("%s", errors.UserMessage(err))
					os.Exit(1)
				}
				return err
			}

			if payload, merr := dump.MarshalJSON(l, doc.Context, doc.Arch); merr == nil {
				_ = backend.Set(ctx, key, payload, 0)
			}

			printBlocks(dump.Blocks(l, doc.Context, doc.Arch), jsonOutput)
			printCacheStatus(false)
			return nil
		},
	}

	addLoadFlags(cmd, &f)
	cmd.Flags().Uint64Var(&splittingID, "splitting-id", 0, "splitting design-space coordinate")
	cmd.Flags().Uint64Var(&packingID, "packing-id", 0, "packing design-space coordinate")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the construct-result cache")
	cmd.Flags().StringVar(&redisAddr, "cache-redis", "", "use a Redis cache at this address instead of the local file cache")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON instead of the dump format")
	return cmd
}

func printBlocks(blocks []dump.Block, jsonOutput bool) {
	if jsonOutput {
		sort.Slice(blocks, func(i, j int) bool {
			if blocks[i].Target != blocks[j].Target {
				return blocks[i].Target < blocks[j].Target
			}
			return blocks[i].Type < blocks[j].Type
		})
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(blocks)
		return
	}
	for _, b := range blocks {
		printInfo("%s %s", b.Target, b.Type)
		ranks := make([]string, 0, len(b.Factors))
		for r := range b.Factors {
			ranks = append(ranks, r)
		}
		sort.Strings(ranks)
		for _, r := range ranks {
			printDetail("%s = %d", r, b.Factors[r])
		}
	}
}
