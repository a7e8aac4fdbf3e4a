package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/shirtsort/internal/photo"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <path|dir|url>...",
		Short: "Detect the garment colour of each photo",
		Long: `Detect the garment colour of each photo and print one row per photo.

Directories are scanned (not recursively) for supported images. URLs are
fetched over HTTP(S).

Examples:
  # Analyse every photo in a directory
  shirtsort analyze ./photos

  # Use four workers and print JSON
  shirtsort analyze --workers 4 --format json ./photos`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}

			photos, err := a.analyzeInputs(cmd.Context(), args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if f != formatTable {
				return writeStructured(cmd.OutOrStdout(), f, photos)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderAnalysis(photos, isTerminal(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(formatTable), "output format (table, json, yaml)")
	return cmd
}

func renderAnalysis(photos []*photo.Photo, tty bool) string {
	headers := []string{"#", "FILE", "HEX", "NAME", "CONFIDENCE", "SOURCE"}
	if tty {
		headers = append([]string{"#", "FILE", "COLOUR"}, headers[2:]...)
	}
	table := NewTable(headers)
	table.SetColumnMaxWidth(1, 40)
	table.AlignRight(0)

	for i, p := range photos {
		res := photo.DefaultAnalysis()
		if p.Analysis != nil {
			res = *p.Analysis
		}
		row := []string{strconv.Itoa(i + 1), p.Name}
		if tty {
			row = append(row, swatch(res.DominantColor, true))
		}
		row = append(row, res.Hex(), res.ColorName, confidence(res.Confidence), res.Origin())
		table.AddRow(row)
	}
	return table.Render()
}
