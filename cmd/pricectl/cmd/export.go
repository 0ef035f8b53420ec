package cmd

import (
	"context"
	"fmt"

	"StockAccess/internal/di"
	domrepo "StockAccess/internal/domain/repository"

	"github.com/spf13/cobra"
)

var (
	exportFlags rangeFlags
	exportSink  string
)

// openSink creates the export sink. Tests replace it.
var openSink = func(ctx context.Context, tk *di.Toolkit, name string, mode domrepo.Mode) (domrepo.BarSink, error) {
	return di.OpenSink(ctx, tk.Config, name, mode, tk.Logger)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy bars for a time range to ClickHouse or Kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, cleanup, err := loadToolkit()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		p := exportFlags.params()
		sink, err := openSink(ctx, tk, exportSink, domrepo.NormalizeMode(exportFlags.mode))
		if err != nil {
			return err
		}
		res, err := tk.Export.Export(ctx, p, sink)
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s sink: %w", sink.Name(), cerr)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	exportFlags.bind(exportCmd)
	exportCmd.Flags().StringVar(&exportSink, "sink", "clickhouse", "clickhouse or kafka")
}
