package main

import (
	"os"

	"StockAccess/cmd/pricectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
