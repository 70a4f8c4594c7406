package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/config"
	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/loader"
	"github.com/easty4690-png/ab-agri-timeline/pkg/metrics"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/spf13/cobra"
)

type app struct {
	ConfigPath string
	Debug      bool
	Timings    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rf := &renderFlags{}

	cmd := &cobra.Command{
		Use:           "gantt [file]",
		Short:         "Gantt chart and heat map renderer for planning spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Edit a plan interactively (same as: gantt tui plan.xlsx)
  gantt plan.xlsx

  # Render a chart
  gantt render plan.xlsx -o plan.png

  # One-slide deck for a status meeting
  gantt slides plan.xlsx -o plan.pptx
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTUI(cmd, a, rf, args[0])
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if a.Debug {
			debug.SetEnabled(true)
			debug.SetOutput(cmd.ErrOrStderr())
		}
		if a.Timings {
			metrics.SetEnabled(true)
		}
		return a.loadConfig()
	}

	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a.Timings {
			printTimings(cmd.ErrOrStderr())
		}
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", envOr("GANTT_CONFIG", ""), "Config file (default: $XDG_CONFIG_HOME/gantt/config.yaml)")
	cmd.PersistentFlags().BoolVar(&a.Debug, "debug", false, "Write debug log to stderr (same as GANTT_DEBUG=1)")
	cmd.PersistentFlags().BoolVar(&a.Timings, "timings", false, "Print load/layout/export timings on exit")
	rf.bind(cmd)

	cmd.AddCommand(newTUICmd(a))
	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newSlidesCmd(a))
	cmd.AddCommand(newEditCmd(a))
	cmd.AddCommand(newInspectCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (a *app) loadConfig() error {
	var err error
	if a.ConfigPath != "" {
		a.cfg, err = config.LoadFrom(a.ConfigPath)
	} else {
		a.cfg, err = config.Load()
	}
	return err
}

// configPath is where settings are persisted.
func (a *app) configPath() string {
	if a.ConfigPath != "" {
		return a.ConfigPath
	}
	return config.ConfigPath()
}

// loadDocument reads path, sending per-cell warnings to the debug log and
// counting them.
func loadDocument(path string) (*model.Document, int, error) {
	debug.Section("load " + filepath.Base(path))
	warnings := 0
	doc, err := loader.LoadWithOptions(path, loader.Options{
		WarningHandler: func(msg string) {
			warnings++
			debug.Log("%s: %s", filepath.Base(path), msg)
		},
	})
	if err != nil {
		return nil, 0, err
	}
	debug.LogIf(warnings > 0, "%s: %d cells degraded", filepath.Base(path), warnings)
	return doc, warnings, nil
}

// compose wraps layout.Compose with a message users can act on.
func compose(doc *model.Document, rc layout.RenderConfig) (*layout.Figure, error) {
	debug.Section("layout")
	fig, err := layout.Compose(doc.Events, rc)
	if errors.Is(err, layout.ErrNoValidDates) {
		return nil, fmt.Errorf("cannot draw %s: %w", filepath.Base(doc.Path), err)
	}
	return fig, err
}

func derivedPath(docPath, suffix string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + suffix
}
