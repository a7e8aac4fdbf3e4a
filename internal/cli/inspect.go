package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/shirtsort/internal/analyzer"
	"github.com/jmylchreest/shirtsort/internal/colour"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		format  string
		palette int
	)

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Show how the colour of one photo was decided",
		Long: `Show per-region extraction results, the classifier result (when a
classifier is configured) and a k-means palette of the torso area.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}

			src, err := imgpkg.NewSource(args[0], a.cfg.SourceOptions())
			if err != nil {
				return err
			}

			an, override, err := a.newAnalyzer(nil)
			if err != nil {
				return err
			}
			defer override.Close()

			rep, err := an.Explain(cmd.Context(), src, palette)
			if err != nil {
				return err
			}

			if f != formatTable {
				return writeStructured(cmd.OutOrStdout(), f, rep)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderReport(rep, isTerminal(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(formatTable), "output format (table, json, yaml)")
	cmd.Flags().IntVar(&palette, "palette", 5, "number of k-means palette colours to show (0 to disable)")
	return cmd
}

func renderReport(rep *analyzer.Report, tty bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%dx%d)\n\n", rep.Name, rep.Width, rep.Height)

	regions := NewTable([]string{"REGION", "KEPT", "COLOUR", "NAME", "CONFIDENCE", "CHOSEN"})
	regions.AlignRight(1)
	regions.AlignRight(4)
	rows := rep.Regions
	if rep.Fallback != nil {
		rows = append(rows[:len(rows):len(rows)], *rep.Fallback)
	}
	for _, r := range rows {
		colourCell, name := "-", "-"
		if r.Result.Eligible {
			colourCell = swatch(r.Result.Color, tty)
			name = colour.NameOf(r.Result.Color)
		}
		chosen := ""
		if r.Chosen {
			chosen = "*"
		}
		regions.AddRow([]string{
			r.Region,
			fmt.Sprintf("%d/%d", r.Kept, r.Scanned),
			colourCell,
			name,
			confidence(r.Result.Confidence),
			chosen,
		})
	}
	b.WriteString(regions.Render())

	switch {
	case rep.Classifier != nil:
		fmt.Fprintf(&b, "\nclassifier: %s from %q (%s)\n", rep.Classifier.Name, rep.Classifier.Label, confidence(rep.Classifier.Confidence))
	case rep.ClassifierError != "":
		fmt.Fprintf(&b, "\nclassifier: %s\n", rep.ClassifierError)
	}

	if len(rep.Palette) > 0 {
		b.WriteString("\n")
		pt := NewTable([]string{"PALETTE", "COLOUR", "NAME", "WEIGHT"})
		pt.AlignRight(3)
		for i, e := range rep.Palette {
			pt.AddRow([]string{strconv.Itoa(i + 1), swatch(e.Color, tty), e.Name, confidence(e.Weight)})
		}
		b.WriteString(pt.Render())
	}

	res := rep.Analysis
	fmt.Fprintf(&b, "\nresult: %s %s %s (%s)\n", swatch(res.DominantColor, tty), res.ColorName, confidence(res.Confidence), res.Origin())
	return b.String()
}
