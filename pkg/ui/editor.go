package ui

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/easty4690-png/ab-agri-timeline/pkg/config"
	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
	"github.com/easty4690-png/ab-agri-timeline/pkg/export"
	"github.com/easty4690-png/ab-agri-timeline/pkg/layout"
	"github.com/easty4690-png/ab-agri-timeline/pkg/loader"
	"github.com/easty4690-png/ab-agri-timeline/pkg/model"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Slider steps.
const (
	zoomStep   = 0.1
	markerStep = 10
	offsetStep = 0.05
)

// Options configures the editor.
type Options struct {
	Config     config.Config
	Render     layout.RenderConfig // zero value takes the render section of Config
	ChartPath  string              // PNG written by "s"; derived from the document path when empty
	SlidesPath string              // deck written by "p"; derived from the document path when empty
	Theme      *Theme
}

// Model is the document editor. It owns the document; every transition
// that changes the document or the render settings recomposes the figure.
type Model struct {
	doc    *model.Document
	cfg    config.Config
	render layout.RenderConfig
	theme  Theme

	chartPath  string
	slidesPath string

	fig       *layout.Figure
	renderErr error

	cursor int
	offset int
	width  int
	height int

	modal       *EditModal
	showPreview bool
	modified    bool

	statusMsg     string
	statusIsError bool
}

// NewModel builds an editor over doc and renders it once.
func NewModel(doc *model.Document, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	cfg := opts.Config
	cfg.Normalize()
	render := opts.Render
	if render == (layout.RenderConfig{}) {
		render = cfg.ToRenderConfig()
	}
	m := Model{
		doc:         doc,
		cfg:         cfg,
		render:      render,
		theme:       theme,
		chartPath:   opts.ChartPath,
		slidesPath:  opts.SlidesPath,
		showPreview: true,
		width:       100,
		height:      30,
	}
	if m.chartPath == "" {
		m.chartPath = derivedPath(doc.Path, "_gantt.png")
	}
	if m.slidesPath == "" {
		m.slidesPath = derivedPath(doc.Path, "_gantt.pptx")
	}
	m.rerender()
	if m.renderErr == nil {
		m.setStatus(fmt.Sprintf("Loaded %d rows from %s", doc.Len(), filepath.Base(doc.Path)), false)
	}
	return m
}

func derivedPath(docPath, suffix string) string {
	if docPath == "" {
		return "gantt" + suffix
	}
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + suffix
}

// Document returns the edited document.
func (m Model) Document() *model.Document { return m.doc }

// RenderConfig returns the current slider settings.
func (m Model) RenderConfig() layout.RenderConfig { return m.render }

// Figure returns the last composed figure, nil after a failed render.
func (m Model) Figure() *layout.Figure { return m.fig }

// Modified reports unsaved edits.
func (m Model) Modified() bool { return m.modified }

func (m Model) Init() tea.Cmd {
	return nil
}

// rerender recomposes the figure from scratch.
func (m *Model) rerender() {
	fig, err := layout.Compose(m.doc.Events, m.render)
	if err != nil {
		m.fig = nil
		m.renderErr = err
		if errors.Is(err, layout.ErrNoValidDates) {
			m.setStatus("Cannot draw chart: no valid dates found in dataset", true)
		} else {
			m.setStatus(fmt.Sprintf("Render error: %v", err), true)
		}
		return
	}
	m.fig = fig
	m.renderErr = nil
	debug.Log("editor: rendered %d bars, %d markers, %d heat cells", len(fig.Bars), len(fig.Markers), len(fig.HeatCells))
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.modal != nil {
			m.modal.SetSize(m.width, m.height)
		}
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)
	m.modal = &modal

	switch {
	case modal.IsCancelRequested():
		m.modal = nil
		m.setStatus("Edit cancelled", false)
	case modal.IsSaveRequested():
		reqs, err := modal.BuildEditRequests()
		if err != nil {
			m.modal.SetError(err)
			return m, nil
		}
		if err := m.doc.ApplyAll(reqs); err != nil {
			m.modal.SetError(err)
			return m, nil
		}
		m.modal = nil
		if len(reqs) == 0 {
			m.setStatus("No changes", false)
			return m, nil
		}
		m.modified = true
		m.setStatus(fmt.Sprintf("Updated row %d (%d fields)", modal.Line(), len(reqs)), false)
		m.rerender()
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < m.doc.Len()-1 {
			m.cursor++
		}
		m.clampScroll()
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampScroll()
	case "g", "home":
		m.cursor = 0
		m.clampScroll()
	case "G", "end":
		m.cursor = max(0, m.doc.Len()-1)
		m.clampScroll()

	case "enter", "e":
		modal, err := NewEditModal(m.doc, m.cursor, m.theme)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		modal.SetSize(m.width, m.height)
		m.modal = &modal

	case "+", "=":
		m.setZoom(m.render.ZoomFactor + zoomStep)
	case "-", "_":
		m.setZoom(m.render.ZoomFactor - zoomStep)
	case "]":
		m.setMarkerSize(m.render.MarkerSize + markerStep)
	case "[":
		m.setMarkerSize(m.render.MarkerSize - markerStep)
	case ">", ".":
		m.setLabelOffset(m.render.LabelOffsetScale + offsetStep)
	case "<", ",":
		m.setLabelOffset(m.render.LabelOffsetScale - offsetStep)
	case "d":
		m.render.SuppressDuplicateLabels = !m.render.SuppressDuplicateLabels
		m.rerender()
		if m.renderErr == nil {
			m.setStatus(fmt.Sprintf("Duplicate label suppression %s", onOff(m.render.SuppressDuplicateLabels)), false)
		}

	case "v":
		m.showPreview = !m.showPreview
		m.clampScroll()

	case "s":
		m.exportChart()
	case "p":
		m.exportSlides()
	case "w":
		m.saveWorkbook()
	case "y":
		m.copyRow()
	case "r":
		m.reload()
	}
	return m, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (m *Model) setZoom(v float64) {
	m.render.ZoomFactor = round2(max(m.cfg.UI.ZoomMin, min(m.cfg.UI.ZoomMax, v)))
	m.rerender()
	if m.renderErr == nil {
		m.setStatus(fmt.Sprintf("Zoom %.1fx", m.render.ZoomFactor), false)
	}
}

func (m *Model) setMarkerSize(v float64) {
	m.render.MarkerSize = max(m.cfg.UI.MarkerMin, min(m.cfg.UI.MarkerMax, v))
	m.rerender()
	if m.renderErr == nil {
		m.setStatus(fmt.Sprintf("Marker size %.0f", m.render.MarkerSize), false)
	}
}

func (m *Model) setLabelOffset(v float64) {
	m.render.LabelOffsetScale = round2(max(0, min(1, v)))
	m.rerender()
	if m.renderErr == nil {
		m.setStatus(fmt.Sprintf("Label offset %.2f", m.render.LabelOffsetScale), false)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m *Model) exportChart() {
	if m.fig == nil {
		m.setStatus("Nothing to export: chart did not render", true)
		return
	}
	if err := export.SaveFigure(m.fig, export.Options{Path: m.chartPath, DPI: m.cfg.Export.PNGDPI}); err != nil {
		m.setStatus(fmt.Sprintf("Export failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Saved chart to %s", m.chartPath), false)
}

func (m *Model) exportSlides() {
	if m.fig == nil {
		m.setStatus("Nothing to export: chart did not render", true)
		return
	}
	opts := export.SlideOptions{DPI: m.cfg.Export.PNGDPI, MarginIn: m.cfg.Export.SlideMarginIn}
	if err := export.SaveSlides(m.fig, m.slidesPath, opts); err != nil {
		m.setStatus(fmt.Sprintf("Slide export failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Saved slides to %s", m.slidesPath), false)
}

func (m *Model) saveWorkbook() {
	if m.doc.Path == "" {
		m.setStatus("Document has no path; use gantt edit -o", true)
		return
	}
	if err := loader.Save(m.doc, m.doc.Path); err != nil {
		m.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return
	}
	m.modified = false
	m.setStatus(fmt.Sprintf("Wrote %d rows to %s", m.doc.Len(), filepath.Base(m.doc.Path)), false)
}

// RowText is the tab-separated form of event i, in spreadsheet column order.
func RowText(doc *model.Document, i int) (string, error) {
	e, err := doc.Event(i)
	if err != nil {
		return "", err
	}
	vals := make([]string, len(model.EditableFields))
	for k, f := range model.EditableFields {
		vals[k] = e.FieldValue(f)
	}
	return strings.Join(vals, "\t"), nil
}

func (m *Model) copyRow() {
	text, err := RowText(m.doc, m.cursor)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	line := m.doc.Events[m.cursor].Line
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied row %d to clipboard", line), false)
}

func (m *Model) reload() {
	if m.doc.Path == "" {
		m.setStatus("Document has no path to reload from", true)
		return
	}
	var warnings int
	doc, err := loader.LoadWithOptions(m.doc.Path, loader.Options{
		WarningHandler: func(string) { warnings++ },
	})
	if err != nil {
		m.setStatus(fmt.Sprintf("Reload error: %v", err), true)
		return
	}
	m.doc = doc
	m.modified = false
	m.cursor = min(m.cursor, max(0, doc.Len()-1))
	m.clampScroll()
	m.rerender()
	if m.renderErr != nil {
		return
	}
	status := fmt.Sprintf("Reloaded %d rows", doc.Len())
	if warnings > 0 {
		status += fmt.Sprintf(" (%d warnings)", warnings)
	}
	m.setStatus(status, false)
}

// --- view -------------------------------------------------------------------

func (m Model) previewHeight() int {
	if !m.showPreview {
		return 0
	}
	if m.fig == nil {
		return 3
	}
	lines := 2 + len(m.fig.TimelineLanes) + len(m.fig.HeatLanes)
	if len(m.fig.HeatLanes) > 0 {
		lines++
	}
	return lines + 2 // border
}

// tableRows is how many event rows fit under the chrome.
func (m Model) tableRows() int {
	chrome := 5 // title, table header, sliders, status, help
	return max(3, m.height-chrome-m.previewHeight())
}

func (m *Model) clampScroll() {
	rows := m.tableRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, min(m.offset, max(0, m.doc.Len()-rows)))
}

type column struct {
	title string
	width int
}

func (m Model) columns() []column {
	cols := []column{
		{"Row", 4}, {"Section", 8}, {"Lane", 8}, {"Title", 0}, {"Symbol", 11},
		{"From", 10}, {"To", 10}, {"Heat", 10}, {"Risk", 14},
	}
	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1
	}
	cols[3].width = max(10, m.width-fixed-1)
	return cols
}

func (m Model) cells(e model.Event) []string {
	section := e.Section.String()
	if e.Section == model.SectionNone {
		section = "-"
	}
	return []string{
		fmt.Sprintf("%d", e.Line),
		section,
		e.RowRef,
		e.Title,
		e.Symbol,
		model.FormatDate(e.DateFrom),
		model.FormatDate(e.DateTo),
		model.FormatDate(e.HeatMapDate),
		e.RiskLevel,
	}
}

func (m Model) renderTable() string {
	cols := m.columns()
	var sb strings.Builder

	header := make([]string, len(cols))
	for k, c := range cols {
		header[k] = padRight(c.title, c.width)
	}
	sb.WriteString(m.theme.Header.Render(strings.Join(header, " ")))
	sb.WriteString("\n")

	rows := m.tableRows()
	end := min(m.doc.Len(), m.offset+rows)
	for i := m.offset; i < end; i++ {
		e := m.doc.Events[i]
		vals := m.cells(e)
		parts := make([]string, len(cols))
		for k, c := range cols {
			parts[k] = padRight(vals[k], c.width)
		}
		if i == m.cursor {
			sb.WriteString(m.theme.Selected.Render(strings.Join(parts, " ")))
		} else {
			parts[1] = m.theme.Renderer.NewStyle().Foreground(m.theme.SectionColor(e.Section)).Render(parts[1])
			sb.WriteString(m.theme.Base.Render(strings.Join(parts, " ")))
		}
		sb.WriteString("\n")
	}
	for i := end - m.offset; i < rows; i++ {
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderSliders() string {
	parts := []string{
		RenderSlider("Zoom", m.render.ZoomFactor, m.cfg.UI.ZoomMin, m.cfg.UI.ZoomMax, "%.1fx", m.theme),
		RenderSlider("Marker", m.render.MarkerSize, m.cfg.UI.MarkerMin, m.cfg.UI.MarkerMax, "%.0f", m.theme),
		RenderSlider("Offset", m.render.LabelOffsetScale, 0, 1, "%.2f", m.theme),
		m.theme.MutedText.Render("Dedupe ") + onOff(m.render.SuppressDuplicateLabels),
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderPreviewPanel() string {
	inner := max(20, m.width-4)
	var body string
	if m.fig == nil {
		msg := "no chart"
		if m.renderErr != nil {
			msg = m.renderErr.Error()
		}
		body = m.theme.ErrorText.Render(truncate(msg, inner))
	} else {
		body = RenderPreview(m.fig, inner, m.theme)
	}
	return PanelStyle.Width(inner).Render(body)
}

func (m Model) View() string {
	if m.modal != nil {
		return m.modal.View()
	}

	var sb strings.Builder

	title := fmt.Sprintf("gantt  %s  %d rows", filepath.Base(m.doc.Path), m.doc.Len())
	if m.modified {
		title += "  [modified]"
	}
	sb.WriteString(m.theme.PrimaryBold.Render(truncate(title, m.width)))
	sb.WriteString("\n")

	if m.showPreview {
		sb.WriteString(m.renderPreviewPanel())
		sb.WriteString("\n")
	}
	sb.WriteString(m.renderTable())
	sb.WriteString(m.renderSliders())
	sb.WriteString("\n")

	status := m.statusMsg
	switch {
	case status == "":
		sb.WriteString("\n")
	case m.statusIsError:
		sb.WriteString(m.theme.ErrorText.Render(truncate(status, m.width)))
		sb.WriteString("\n")
	default:
		sb.WriteString(m.theme.SuccessText.Render(truncate(status, m.width)))
		sb.WriteString("\n")
	}

	help := "j/k move • e edit • +/- zoom • ]/[ marker • >/< offset • d dedupe • v preview • s png • p slides • w save • y copy • r reload • q quit"
	sb.WriteString(m.theme.MutedText.Render(truncate(help, m.width)))

	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(sb.String())
}
