package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ageheap/internal/config"
	"ageheap/internal/exporter"
	"ageheap/internal/files"
	"ageheap/internal/services"
	"ageheap/internal/spreadsheet"
)

type batchFlags struct {
	sheet       string
	format      string
	out         string
	recursive   bool
	concurrency int
}

// batchResult is the outcome of one workbook of a batch.
type batchResult struct {
	source string
	output string
	err    error
}

func newAnalyzeBatchCmd() *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "analyze-batch <dir>",
		Short: "Compute the indices of every workbook of a directory",
		Long: `Analyzes each .xlsx and .xls workbook of <dir> and writes one result
file per workbook to --out, named resultats_<workbook>.<format>.
Legacy .xls files are listed but cannot be read and are reported as failures.
A failing workbook is reported and does not stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyzeBatch(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "worksheet to read in every workbook (default: first sheet)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(exporter.FormatXLSX), "output format: json | csv | xlsx")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "resultats", "output directory")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", runtime.NumCPU(), "workbooks analyzed in parallel")

	return cmd
}

func runAnalyzeBatch(cmd *cobra.Command, dir string, flags *batchFlags) error {
	format, err := exporter.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	if flags.concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", flags.concurrency)
	}

	upload := config.Default().Upload
	workbooks, err := files.NewDiscovery(upload.AllowedExtensions).FindWorkbooks(dir, flags.recursive)
	if err != nil {
		return err
	}
	if len(workbooks) == 0 {
		return fmt.Errorf("no workbook found in %s", dir)
	}

	logger := slog.Default()
	service := services.NewHeapingService(upload, nil, logger)
	opts := spreadsheet.Options{SheetName: flags.sheet}

	// Names are assigned in path order so that collisions resolve the same
	// way on every run.
	results := make([]batchResult, len(workbooks))
	taken := make(map[string]bool)
	for i, wb := range workbooks {
		results[i] = batchResult{
			source: wb.Path,
			output: filepath.Join(flags.out, uniqueName(taken, format.FileName(wb.Name))),
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(flags.concurrency)
	for i := range results {
		res := &results[i]
		g.Go(func() error {
			resp, err := service.AnalyzeFile(ctx, res.source, opts)
			if err != nil {
				res.err = describe(err)
				return nil
			}

			if err := exporter.WriteFile(res.output, format, resp); err != nil {
				// Write failures are not workbook specific: stop the batch.
				return fmt.Errorf("write %s: %w", res.output, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", res.source, res.err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s → %s\n", res.source, res.output)
	}

	logger.InfoContext(cmd.Context(), "Batch analysis finished",
		slog.Int("workbooks", len(workbooks)),
		slog.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d workbooks failed", failed, len(workbooks))
	}
	return nil
}

// uniqueName suffixes repeated output names (same base name in different
// subdirectories) with the first free __2, __3... and marks the result taken.
func uniqueName(taken map[string]bool, name string) string {
	candidate := name
	ext := filepath.Ext(name)
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s__%d%s", name[:len(name)-len(ext)], n, ext)
	}
	taken[candidate] = true
	return candidate
}
