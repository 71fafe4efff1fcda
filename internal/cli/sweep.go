package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/maeri-project/timeloop/pkg/cache"
	"github.com/maeri-project/timeloop/pkg/observability"
	"github.com/maeri-project/timeloop/pkg/sweepstore"
)

// sweepCommand runs the outer search loop spec §5 describes: it claims
// (splitting_id, packing_id) pairs one at a time from a sweepstore.Store,
// constructs each, and tallies pass/fail counts, recording progress so a
// restarted or replicated worker can resume without redoing work.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		f          loadFlags
		storeKind  string
		storeDir   string
		redisAddr  string
		mongoURI   string
		mongoDB    string
		mongoColl  string
		limit      uint64
		resumeRun  string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Claim and construct every (splitting_id, packing_id) pair in the design space",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, lg, err := loadLegal(ctx, f)
			if err != nil {
				return err
			}
			splittingCandidates, packingCandidates, err := lg.GlobalSizes()
			if err != nil {
				return err
			}

			store, closeStore, err := newSweepStore(ctx, storeKind, storeDir, redisAddr, mongoURI, mongoDB, mongoColl)
			if err != nil {
				return err
			}
			defer closeStore()

			digest := cache.Digest(doc.Context, doc.Mapping, doc.Arch)

			var run *sweepstore.Run
			if resumeRun != "" {
				run, err = store.GetRun(ctx, resumeRun)
				if err != nil {
					return err
				}
			} else {
				run, err = store.CreateRun(ctx, digest, splittingCandidates, packingCandidates)
				if err != nil {
					return err
				}
			}

			printKeyValue("Run", run.ID)
			printKeyValue("Total", formatUint(run.Total()))

			start := time.Now()
			var legalCount uint64
			var explored uint64
			for {
				if limit > 0 && explored >= limit {
					break
				}
				splittingID, packingID, done, err := store.ClaimNext(ctx, run.ID)
				if err != nil {
					return err
				}
				if done {
					break
				}
				explored++
				if _, err := lg.Construct(ctx, splittingID, packingID); err == nil {
					legalCount++
				}
				observability.Sweep().OnSweepProgress(ctx, run.ID, explored, run.Total())
				if explored%1000 == 0 {
					printDetail("explored %s/%s (%s legal)", formatUint(explored), formatUint(run.Total()), formatUint(legalCount))
				}
			}

			if err := store.SetStatus(ctx, run.ID, sweepstore.StatusCompleted); err != nil {
				return err
			}
			observability.Sweep().OnSweepComplete(ctx, run.ID, legalCount, time.Since(start))
			printSuccess("Swept %s pairs, %s legal (%s)", formatUint(explored), formatUint(legalCount), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	addLoadFlags(cmd, &f)
	cmd.Flags().StringVar(&storeKind, "store", "memory", "sweep-progress backend: memory, file, redis, or mongo")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "base directory for the file store (default: XDG cache dir)")
	cmd.Flags().StringVar(&redisAddr, "store-redis", "", "Redis address for the redis store")
	cmd.Flags().StringVar(&mongoURI, "store-mongo-uri", "", "MongoDB connection URI for the mongo store")
	cmd.Flags().StringVar(&mongoDB, "store-mongo-db", "legalize", "MongoDB database name for the mongo store")
	cmd.Flags().StringVar(&mongoColl, "store-mongo-collection", "sweeps", "MongoDB collection name for the mongo store")
	cmd.Flags().Uint64Var(&limit, "limit", 0, "stop after claiming this many pairs (0 = sweep to completion)")
	cmd.Flags().StringVar(&resumeRun, "resume", "", "resume an existing run ID instead of creating a new one")
	return cmd
}

func newSweepStore(ctx context.Context, kind, dir, redisAddr, mongoURI, mongoDB, mongoColl string) (sweepstore.Store, func(), error) {
	switch kind {
	case "memory":
		s := sweepstore.NewMemoryStore()
		return s, func() { _ = s.Close() }, nil
	case "file":
		if dir == "" {
			base, err := cacheDir()
			if err != nil {
				return nil, nil, err
			}
			dir = base
		}
		s, err := sweepstore.NewFileStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "redis":
		s, err := sweepstore.NewRedisStore(redisAddr)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "mongo":
		s, err := sweepstore.NewMongoStore(ctx, mongoURI, mongoDB, mongoColl)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s := sweepstore.NewMemoryStore()
		return s, func() { _ = s.Close() }, nil
	}
}

func formatUint(n uint64) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
