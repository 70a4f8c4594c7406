package main

import (
	"fmt"

	"github.com/easty4690-png/ab-agri-timeline/pkg/config"
	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	rf := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "tui <file>",
		Short: "Edit a plan in the terminal with a live chart preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a, rf, args[0])
		},
	}
	rf.bind(cmd)
	return cmd
}

func runTUI(cmd *cobra.Command, a *app, rf *renderFlags, path string) error {
	doc, warnings, err := loadDocument(path)
	if err != nil {
		return err
	}
	if warnings > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d cells could not be parsed (run with --debug for details)\n", warnings)
	}

	start := rf.apply(a.cfg)
	cfg := a.cfg
	if rf.dpi > 0 {
		cfg.Export.PNGDPI = rf.dpi
	}
	m := ui.NewModel(doc, ui.Options{Config: cfg, Render: start})

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}

	fm, ok := final.(ui.Model)
	if !ok || fm.RenderConfig() == start {
		return nil
	}
	if fm.Modified() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Quit with unsaved edits (press w in the editor to write the workbook)")
	}
	return a.persistRender(fm)
}

// persistRender stores the editor's final slider settings in the config file.
func (a *app) persistRender(m ui.Model) error {
	path := a.configPath()
	if path == "" {
		return nil
	}
	a.cfg.SetRender(m.RenderConfig())
	if err := config.SaveTo(a.cfg, path); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	debug.Log("render settings saved to %s", path)
	return nil
}
