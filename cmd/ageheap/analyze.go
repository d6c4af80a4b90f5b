package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ageheap/internal/config"
	apierrors "ageheap/internal/errors"
	"ageheap/internal/exporter"
	"ageheap/internal/services"
	"ageheap/internal/spreadsheet"
)

type analyzeFlags struct {
	sheet  string
	format string
	out    string
}

func newAnalyzeCmd() *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <file.xlsx>",
		Short: "Compute the age-heaping indices of a workbook",
		Long: `Reads the first sheet (or --sheet) of an .xlsx workbook with the columns
Age, Homme and Femme and writes the indices as JSON or CSV on stdout, or to
--out in any format. Data-quality warnings go to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "worksheet to read (default: first sheet)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(exporter.FormatJSON), "output format: json | csv | xlsx")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "write results to this file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, flags *analyzeFlags) error {
	format, err := exporter.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	if format == exporter.FormatXLSX && flags.out == "" {
		return errors.New("--format xlsx requires --out")
	}

	service := services.NewHeapingService(config.Default().Upload, nil, slog.Default())
	resp, err := service.AnalyzeFile(cmd.Context(), path, spreadsheet.Options{SheetName: flags.sheet})
	if err != nil {
		return describe(err)
	}

	for _, w := range resp.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", w.Message)
	}

	if flags.out != "" {
		if err := exporter.WriteFile(flags.out, format, resp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote results to %s\n", flags.out)
		return nil
	}

	return exporter.Write(cmd.OutOrStdout(), format, resp)
}

// describe appends textual details of an analysis error to its message.
func describe(err error) error {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if detail, ok := apiErr.Details.(string); ok && detail != "" {
		return fmt.Errorf("%s: %s", apiErr.Message, detail)
	}
	return err
}
