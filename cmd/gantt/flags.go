package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/config"
	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/metrics"

	"github.com/spf13/cobra"
)

// renderFlags override the render section of the config for one run.
type renderFlags struct {
	title        string
	zoom         float64
	markerSize   float64
	labelOffset  float64
	noSuppress   bool
	colorUnknown bool
	dpi          float64

	cmd *cobra.Command
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	f.cmd = cmd
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "Chart title")
	fs.Float64Var(&f.zoom, "zoom", 1.0, "Zoom factor applied to the figure size")
	fs.Float64Var(&f.markerSize, "marker-size", 70, "Marker area in points squared")
	fs.Float64Var(&f.labelOffset, "label-offset", 0.25, "Vertical stagger between labels, in lanes")
	fs.BoolVar(&f.noSuppress, "no-suppress", false, "Draw repeated labels on the same lane")
	fs.BoolVar(&f.colorUnknown, "color-unknown", false, "Give unrecognised symbols palette colours instead of gray")
	fs.Float64Var(&f.dpi, "dpi", 0, "Raster resolution (default: export.png_dpi from config)")
}

// apply returns cfg's render settings with every flag the user set on top.
func (f *renderFlags) apply(cfg config.Config) layout.RenderConfig {
	rc := cfg.ToRenderConfig()
	if f.cmd == nil {
		return rc
	}
	changed := f.cmd.Flags().Changed
	if changed("title") {
		rc.Title = f.title
	}
	if changed("zoom") {
		rc.ZoomFactor = f.zoom
	}
	if changed("marker-size") {
		rc.MarkerSize = f.markerSize
	}
	if changed("label-offset") {
		rc.LabelOffsetScale = f.labelOffset
	}
	if changed("no-suppress") {
		rc.SuppressDuplicateLabels = !f.noSuppress
	}
	if changed("color-unknown") {
		rc.ColorUnknownSymbols = f.colorUnknown
	}
	return rc
}

func (f *renderFlags) rasterDPI(cfg config.Config) float64 {
	if f.dpi > 0 {
		return f.dpi
	}
	return cfg.Export.PNGDPI
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func printTimings(w io.Writer) {
	stats := metrics.AllTimingStats()
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(w, "Timings:")
	for _, s := range stats {
		fmt.Fprintf(w, "  %-7s %3d× total %8.2fms  avg %8.2fms  max %8.2fms\n", s.Name, s.Count, s.TotalMs, s.AvgMs, s.MaxMs)
	}
}
