package main

import (
	"fmt"

	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/export"

	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	rf := &renderFlags{}
	var out string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the chart to PNG or SVG",
		Long: `Render the chart to PNG or SVG. The format follows the output extension.
Without -o the chart is written next to the input as <name>_gantt.png.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			fig, err := compose(doc, rf.apply(a.cfg))
			if err != nil {
				return err
			}
			if out == "" {
				out = derivedPath(args[0], "_gantt.png")
			}
			debug.Section("export " + out)
			if err := export.SaveFigure(fig, export.Options{Path: out, DPI: rf.rasterDPI(a.cfg)}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to %s\n", out)
			reportSkipped(cmd, len(fig.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (.png or .svg)")
	rf.bind(cmd)
	return cmd
}

func newSlidesCmd(a *app) *cobra.Command {
	rf := &renderFlags{}
	var out string
	var margin float64

	cmd := &cobra.Command{
		Use:   "slides <file>",
		Short: "Export the chart as a one-slide PowerPoint deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			fig, err := compose(doc, rf.apply(a.cfg))
			if err != nil {
				return err
			}
			if out == "" {
				out = derivedPath(args[0], "_gantt.pptx")
			}
			if !cmd.Flags().Changed("margin") {
				margin = a.cfg.Export.SlideMarginIn
			}
			debug.Section("export " + out)
			opts := export.SlideOptions{DPI: rf.rasterDPI(a.cfg), MarginIn: margin}
			if err := export.SaveSlides(fig, out, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Slides saved to %s\n", out)
			reportSkipped(cmd, len(fig.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output deck (.pptx)")
	cmd.Flags().Float64Var(&margin, "margin", 0.3, "Slide margin in inches (default: export.slide_margin_in from config)")
	rf.bind(cmd)
	return cmd
}

func reportSkipped(cmd *cobra.Command, n int) {
	if n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d rows were not drawn (see: gantt inspect)\n", n)
	}
}
