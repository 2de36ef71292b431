/*
Package cli provides helpers shared by the zdenci commands.

Output Formatting:

Commands that list things build a Table and let the user pick the format:

	t := &cli.Table{Columns: []string{"id", "status"}, Rows: rows, Data: entries}
	if err := cli.Render(os.Stdout, cli.FormatTable, t); err != nil {
		return err
	}

Errors:

Commands return *CommandError or *ConfigError; ExitCode maps them to the
process exit status.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
