package cmd

import (
	"context"

	"StockAccess/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	calStart  string
	calEnd    string
	calPrefer string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print open trading days in a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withToolkit(cmd, func(ctx context.Context, tk toolkit) (interface{}, error) {
			return tk.calendar.TradingDays(ctx, calStart, calEnd, calPrefer)
		})
	},
}

func init() {
	calendarCmd.Flags().StringVar(&calStart, "start", "", "first day (YYYYMMDD)")
	calendarCmd.Flags().StringVar(&calEnd, "end", "", "last day (YYYYMMDD)")
	calendarCmd.Flags().StringVar(&calPrefer, "prefer", usecase.PreferTushare, "source asked first: tushare or mongo")
	_ = calendarCmd.MarkFlagRequired("start")
	_ = calendarCmd.MarkFlagRequired("end")
}
