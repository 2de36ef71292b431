package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zdenci/exporter/pkg/cli"
	"zdenci/exporter/pkg/export"
	"zdenci/exporter/pkg/filter"
	"zdenci/exporter/pkg/grid"
	"zdenci/exporter/pkg/zdenci"
)

type downloadOptions struct {
	mode      string
	search    string
	columns   []string
	filters   []string
	orders    []string
	output    string
	target    string
	overwrite bool
	records   string
	jsonld    bool
}

func newDownloadCmd(g *globals) *cobra.Command {
	opts := &downloadOptions{}

	cmd := &cobra.Command{
		Use:   "download csv|json",
		Short: "Export the filtered registry",
		Long: `Export the rows matching the current filters as CSV or JSON.

Filters mirror the registry grid:
  --search TERM             global search over all columns
  --column IDX=VALUE        per-column search (repeatable)
  --filter IDX:LOGIC=VALUE  column-control filter, optional type after the
                            logic, e.g. 12:greater:num=15.9 (repeatable)
  --order IDX[:asc|desc]    grid ordering (repeatable)

In local mode the rows are filtered here and sorted by group and location.
In remote mode the filters are sent to the export endpoint and its response
is saved unchanged.`,
		Example: `  zdenci download csv --column 1=Trešnjevka
  zdenci download json --filter 12:notEmpty --output -
  zdenci download csv --mode remote --search "javni zdenac"`,
		ValidArgs: []string{"csv", "json"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, g, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.mode, "mode", "", "export mode: local or remote (default from config)")
	f.StringVarP(&opts.search, "search", "s", "", "global search term")
	f.StringArrayVar(&opts.columns, "column", nil, "column search IDX=VALUE")
	f.StringArrayVar(&opts.filters, "filter", nil, "column filter IDX:LOGIC[:TYPE]=VALUE")
	f.StringArrayVar(&opts.orders, "order", nil, "grid ordering IDX[:asc|desc]")
	f.StringVarP(&opts.output, "output", "o", "", "output directory, or - for stdout")
	f.StringVar(&opts.target, "target", "", "delivery target: file, stdout or minio")
	f.BoolVar(&opts.overwrite, "overwrite", false, "replace an existing file instead of numbering a new one")
	f.StringVar(&opts.records, "records", "", "records file for local mode (default from config)")
	f.BoolVar(&opts.jsonld, "jsonld", false, "add JSON-LD @context and @type to JSON exports")

	return cmd
}

func runDownload(cmd *cobra.Command, g *globals, opts *downloadOptions, formatArg string) error {
	ctx := cmd.Context()
	cfg := g.cfg

	format, err := zdenci.ParseFormat(formatArg)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	modeArg := opts.mode
	if modeArg == "" {
		modeArg = cfg.Mode
	}
	mode, err := zdenci.ParseMode(modeArg)
	if err != nil {
		return cli.NewConfigError("--mode", err.Error())
	}

	a, err := newApp(cfg, g.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			g.logger.Warn("cleanup failed", "error", cerr)
		}
	}()

	table := grid.New(nil)
	if mode == zdenci.ModeLocal {
		path := opts.records
		if path == "" {
			path = cfg.Source.RecordsFile
		}
		records, err := a.loadRecords(ctx, path)
		if err != nil {
			return cli.NewCommandError("download", err)
		}
		table.SetRows(records)
	} else if a.client == nil {
		return cli.NewConfigError("source.base_url", "remote mode requires a base URL")
	}

	if err := applyGridState(table, opts); err != nil {
		return err
	}

	exporter, err := export.NewExporter(mode, table, a.sorter, a.fetcher())
	if err != nil {
		return cli.NewCommandError("download", err)
	}
	if local, ok := exporter.(*export.LocalExporter); ok {
		local.WithJSONLD(opts.jsonld || cfg.Export.JSONLD)
	}

	target := opts.target
	dir := opts.output
	switch {
	case dir == "-":
		target = "stdout"
	case dir == "":
		dir = cfg.Delivery.Dir
	}
	if target == "" {
		target = cfg.Delivery.Target
	}
	overwrite := opts.overwrite || cfg.Delivery.Overwrite

	d, err := a.deliverer(ctx, target, dir, overwrite, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	res, err := a.orchestrator(mode, exporter).RunTo(ctx, format, d)
	if err != nil {
		return cli.NewCommandError("download", err)
	}

	if target != "stdout" {
		rows := "all"
		if res.Rows >= 0 {
			rows = strconv.Itoa(res.Rows)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (%s rows, %d bytes)\n", res.Target, rows, res.Bytes)
	}
	return nil
}

// applyGridState copies the command-line filters onto table.
func applyGridState(table *grid.Table, opts *downloadOptions) error {
	table.SetSearch(opts.search)

	for _, spec := range opts.columns {
		idx, term, err := filter.ParseColumnSearch(spec)
		if err != nil {
			return cli.NewConfigError("--column", err.Error())
		}
		if err := table.SetColumnSearch(idx, term); err != nil {
			return cli.NewConfigError("--column", err.Error())
		}
	}

	for _, spec := range opts.filters {
		idx, p, err := filter.ParseColumnFilter(spec)
		if err != nil {
			return cli.NewConfigError("--filter", err.Error())
		}
		if err := table.SetColumnFilter(idx, p); err != nil {
			return cli.NewConfigError("--filter", err.Error())
		}
	}

	if len(opts.orders) > 0 {
		orders := make([]grid.Order, 0, len(opts.orders))
		for _, spec := range opts.orders {
			o, err := parseOrder(spec)
			if err != nil {
				return cli.NewConfigError("--order", err.Error())
			}
			orders = append(orders, o)
		}
		if err := table.SetOrder(orders...); err != nil {
			return cli.NewConfigError("--order", err.Error())
		}
	}
	return nil
}

// parseOrder parses "IDX[:asc|desc]".
func parseOrder(spec string) (grid.Order, error) {
	idxPart, dir, hasDir := strings.Cut(spec, ":")
	idx, err := strconv.Atoi(strings.TrimSpace(idxPart))
	if err != nil || idx < 0 {
		return grid.Order{}, fmt.Errorf("invalid column index in %q", spec)
	}
	o := grid.Order{Column: idx}
	if hasDir {
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "asc":
		case "desc":
			o.Desc = true
		default:
			return grid.Order{}, fmt.Errorf("invalid direction %q, want asc or desc", dir)
		}
	}
	return o, nil
}
