package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"
	"StockAccess/internal/usecase"
	"StockAccess/pkg/util"

	"github.com/spf13/cobra"
)

type rangeFlags struct {
	symbols string
	start   string
	end     string
	mode    string
}

func (f *rangeFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.symbols, "symbols", "", "comma separated symbols")
	c.Flags().StringVar(&f.start, "start", "", "inclusive start (YYYYMMDD or YYYYMMDDHHMM)")
	c.Flags().StringVar(&f.end, "end", "", "inclusive end (YYYYMMDD or YYYYMMDDHHMM)")
	c.Flags().StringVar(&f.mode, "mode", "daily", "daily or minute")
	_ = c.MarkFlagRequired("symbols")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("end")
}

func (f *rangeFlags) params() usecase.RangeParams {
	return usecase.RangeParams{
		Symbols: util.SplitSymbols(f.symbols),
		Start:   strings.TrimSpace(f.start),
		End:     strings.TrimSpace(f.end),
		Mode:    domrepo.Mode(f.mode),
	}
}

var (
	batchFlags rangeFlags
	frameFlags rangeFlags
	frameFFill bool
	frameFmt   string
	namesSyms  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Print bars per symbol for a time range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withToolkit(cmd, func(ctx context.Context, tk toolkit) (interface{}, error) {
			return tk.prices.Batch(ctx, batchFlags.params())
		})
	},
}

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Print bars aligned on the union of timestamps",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := frameFlags.params()
		fetch := func(ctx context.Context, tk toolkit) (interface{}, error) {
			return tk.prices.Frame(ctx, p, models.FrameOptions{ForwardFill: frameFFill})
		}
		switch frameFmt {
		case "json":
			return withToolkit(cmd, fetch)
		case "csv":
			layout := util.DayLayout
			if p.Mode == domrepo.ModeMinute {
				layout = util.MinuteLayout
			}
			return runToolkit(cmd, fetch, func(w io.Writer, v interface{}) error {
				return writeFrameCSV(w, v.(*models.Frame), layout)
			})
		default:
			return fmt.Errorf("unknown format %q", frameFmt)
		}
	},
}

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Print display names for symbols",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withToolkit(cmd, func(ctx context.Context, tk toolkit) (interface{}, error) {
			return tk.prices.Names(ctx, util.SplitSymbols(namesSyms))
		})
	},
}

func init() {
	batchFlags.bind(batchCmd)
	frameFlags.bind(frameCmd)
	frameCmd.Flags().BoolVar(&frameFFill, "ffill", false, "carry the last bar forward into empty cells")
	frameCmd.Flags().StringVar(&frameFmt, "format", "json", "json or csv")
	namesCmd.Flags().StringVar(&namesSyms, "symbols", "", "comma separated symbols")
	_ = namesCmd.MarkFlagRequired("symbols")
}

// toolkit is the subset of di.Toolkit the commands use.
type toolkit struct {
	prices   *usecase.PricesUseCase
	calendar *usecase.CalendarUseCase
	export   *usecase.ExportUseCase
}

// withToolkit builds the readers, runs fn under the command timeout and
// prints its result as JSON.
func withToolkit(cmd *cobra.Command, fn func(ctx context.Context, tk toolkit) (interface{}, error)) error {
	return runToolkit(cmd, fn, printJSON)
}

func runToolkit(cmd *cobra.Command, fn func(ctx context.Context, tk toolkit) (interface{}, error), write func(io.Writer, interface{}) error) error {
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

	out, err := fn(ctx, toolkit{prices: tk.Prices, calendar: tk.Calendar, export: tk.Export})
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), out)
}

// writeFrameCSV writes one line per frame row: the timestamp, then one cell
// per symbol and bar field. Unset cells are empty.
func writeFrameCSV(w io.Writer, f *models.Frame, layout string) error {
	cw := csv.NewWriter(w)
	header := []string{"timestamp"}
	var cols [][]*float64
	for _, sym := range f.Symbols {
		for _, field := range models.BarFields {
			header = append(header, sym+"."+field)
			cols = append(cols, f.Column(sym, field))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, ts := range f.Index() {
		rec := make([]string, 0, len(header))
		rec = append(rec, ts.Format(layout))
		for _, col := range cols {
			if col[i] == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(*col[i], 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
