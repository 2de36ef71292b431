package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"zdenci/exporter/pkg/cli"
	"zdenci/exporter/pkg/snapshot"
	"zdenci/exporter/pkg/zdenci"
)

func newSnapshotCmd(g *globals) *cobra.Command {
	var (
		dir     string
		records string
		noLD    bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Regenerate the full registry snapshots once",
		Long: `Write zdenci.csv and zdenci.json with every record, sorted by group and
location. Existing snapshots are replaced atomically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if dir == "" {
				dir = cfg.Snapshot.Dir
			}
			if records == "" {
				records = cfg.Source.RecordsFile
			}

			a, err := newApp(cfg, g.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			refresher := snapshot.NewRefresher(dir, recordsLister(a, records), a.sorter,
				snapshot.WithJSONLD(cfg.Snapshot.JSONLD && !noLD),
				snapshot.WithMetrics(a.metrics),
				snapshot.WithLogger(g.logger),
			)
			res, err := refresher.Refresh(cmd.Context())
			if err != nil {
				return cli.NewCommandError("snapshot", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d records\n", res.Records)
			for _, f := range res.Files {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (default from config)")
	cmd.Flags().StringVar(&records, "records", "", "records file (default from config, else the records API)")
	cmd.Flags().BoolVar(&noLD, "no-jsonld", false, "omit JSON-LD annotations from zdenci.json")
	return cmd
}

// recordsLister reads the full registry from path, or from the records API
// when path is empty.
func recordsLister(a *app, path string) snapshot.Lister {
	return snapshot.ListerFunc(func(ctx context.Context) ([]zdenci.Record, error) {
		return a.loadRecords(ctx, path)
	})
}
