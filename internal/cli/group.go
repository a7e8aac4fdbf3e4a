package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/shirtsort/internal/config"
	"github.com/jmylchreest/shirtsort/internal/export"
	"github.com/jmylchreest/shirtsort/internal/grouping"
	"github.com/jmylchreest/shirtsort/internal/photo"
)

func newGroupCmd(a *app) *cobra.Command {
	var (
		format    string
		exportDir string
		archive   string
	)

	cmd := &cobra.Command{
		Use:   "group <path|dir|url>...",
		Short: "Group photos by garment colour",
		Long: `Analyse photos and group those with similar garment colours.

Photos are visited in order (see --order). Each joins the first existing
group whose colour is within the threshold, otherwise it starts a new
group. Groups are named "Day 1", "Day 2", ... in creation order and listed
largest first.

Examples:
  # Print groups for a directory
  shirtsort group ./photos

  # Sort by capture time and copy each group into its own folder
  shirtsort group --order capture --export-dir ./sorted ./photos

  # Write the groups into an archive
  shirtsort group --archive days.tar.xz ./photos`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			if archive != "" {
				if _, err := export.DetectFormat(archive); err != nil {
					return err
				}
			}

			photos, err := a.analyzeInputs(cmd.Context(), args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			engine := &grouping.Engine{Threshold: a.cfg.Threshold, Logger: a.logger.Named("grouping")}
			groups := engine.Group(photos)

			if exportDir != "" {
				if err := export.ToDirectory(cmd.Context(), groups, exportDir); err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				a.logger.Info("exported groups", "dir", exportDir, "groups", len(groups))
			}
			if archive != "" {
				if err := export.WriteArchive(cmd.Context(), groups, archive); err != nil {
					return fmt.Errorf("archive failed: %w", err)
				}
				a.logger.Info("wrote archive", "file", archive, "groups", len(groups))
			}

			if f != formatTable {
				return writeStructured(cmd.OutOrStdout(), f, groups)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderGroups(groups, isTerminal(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(formatTable), "output format (table, json, yaml)")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "copy grouped photos into this directory")
	cmd.Flags().StringVar(&archive, "archive", "", "write grouped photos to an archive (.zip or .tar.xz)")
	cmd.Flags().Float64("threshold", config.DefaultThreshold, "colour distance below which photos share a group")
	bindFlags(a.v, cmd.Flags(), map[string]string{"threshold": config.KeyThreshold})

	return cmd
}

func renderGroups(groups []*photo.Group, tty bool) string {
	if len(groups) == 0 {
		return "No groups.\n"
	}

	var b strings.Builder
	summary := NewTable([]string{"GROUP", "COLOUR", "NAME", "PHOTOS"})
	summary.AlignRight(3)
	for _, g := range groups {
		summary.AddRow([]string{g.Name, swatch(g.RepresentativeColor, tty), g.ColorName(), strconv.Itoa(g.Len())})
	}
	b.WriteString(summary.Render())

	for _, g := range groups {
		fmt.Fprintf(&b, "\n%s (%s)\n", g.Name, g.RepresentativeColor.Hex())
		for i, p := range g.Photos {
			line := fmt.Sprintf("  %d. %s", i+1, p.Name)
			if p.Analysis != nil {
				line += fmt.Sprintf("  %s %s %s", swatch(p.Analysis.DominantColor, tty), p.Analysis.ColorName, confidence(p.Analysis.Confidence))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
