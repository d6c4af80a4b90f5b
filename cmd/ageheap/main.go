// Command ageheap computes age-heaping indices from a census workbook
// without starting the HTTP service.
//
//	ageheap analyze population.xlsx
//	ageheap analyze population.xlsx --sheet "Recensement 2019" --format csv
//	ageheap analyze population.xlsx --format xlsx --out resultats.xlsx
//	ageheap version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}
