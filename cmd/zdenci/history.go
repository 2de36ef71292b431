package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"zdenci/exporter/pkg/cli"
	"zdenci/exporter/pkg/history"
)

type historyOptions struct {
	status string
	format string
	mode   string
	since  time.Duration
	limit  int
	offset int
	output string
}

func newHistoryCmd(g *globals) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exports",
		Long: `List recorded export invocations, newest first.

History is read from the configured backend even when recording is
disabled, so earlier runs stay visible.`,
		Example: `  zdenci history --status error
  zdenci history --since 24h --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, g, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.status, "status", "", "filter by status (success, error)")
	f.StringVar(&opts.format, "format", "", "filter by export format (csv, json)")
	f.StringVar(&opts.mode, "mode", "", "filter by mode (local, remote)")
	f.DurationVar(&opts.since, "since", 0, "only exports started within this duration")
	f.IntVar(&opts.limit, "limit", 50, "maximum entries to show")
	f.IntVar(&opts.offset, "offset", 0, "entries to skip")
	f.StringVarP(&opts.output, "output", "o", "table", "output format: table, json or csv")

	cmd.AddCommand(newHistoryPruneCmd(g))
	return cmd
}

func runHistoryList(cmd *cobra.Command, g *globals, opts *historyOptions) error {
	outFormat, err := cli.ParseOutputFormat(opts.output)
	if err != nil {
		return err
	}

	storage, err := openHistory(&g.cfg.History)
	if err != nil {
		return err
	}
	defer storage.Close()

	q := &history.Query{
		Status: opts.status,
		Format: opts.format,
		Mode:   opts.mode,
		Limit:  opts.limit,
		Offset: opts.offset,
	}
	if opts.since > 0 {
		since := time.Now().Add(-opts.since)
		q.Since = &since
	}

	entries, err := storage.Query(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	if entries == nil {
		entries = []*history.Entry{}
	}

	t := &cli.Table{
		Columns: []string{"ID", "STARTED", "MODE", "FORMAT", "STATUS", "ROWS", "BYTES", "DURATION", "TARGET"},
		Data:    entries,
	}
	for _, e := range entries {
		rows := "-"
		if e.Rows >= 0 {
			rows = strconv.Itoa(e.Rows)
		}
		target := e.Target
		if e.Status == history.StatusError {
			target = e.Error
		}
		t.Rows = append(t.Rows, []string{
			e.ID[:min(8, len(e.ID))],
			e.StartedAt.Local().Format(time.DateTime),
			e.Mode,
			e.Format,
			e.Status,
			rows,
			strconv.Itoa(e.Bytes),
			e.Duration().Round(time.Millisecond).String(),
			target,
		})
	}
	return cli.Render(cmd.OutOrStdout(), outFormat, t)
}

func newHistoryPruneCmd(g *globals) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days == 0 {
				days = g.cfg.History.Retention.Days
			}
			if days <= 0 {
				return cli.NewConfigError("--days", "retention must be positive")
			}

			storage, err := openHistory(&g.cfg.History)
			if err != nil {
				return err
			}
			defer storage.Close()

			n, err := history.NewPruner(storage, days).Prune(cmd.Context())
			if err != nil {
				return cli.NewCommandError("history prune", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries older than %d days\n", n, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention in days (default from config)")
	return cmd
}
