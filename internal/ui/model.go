package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/angkat/internal/tracker"
	"github.com/faizmokh/angkat/internal/training"
)

const (
	cellWidth     = 8
	chartBarWidth = 20
)

// Model owns Bubble Tea state for the main TUI experience.
type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker

	dayIndex    int
	row         int
	column      training.Field
	filterIndex int

	mode   mode
	input  textinput.Model
	keys   keyMap
	help   help.Model
	styles styles

	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeNormal mode = iota
	modeEdit
)

type updateResultMsg struct {
	day      string
	exercise string
	set      int
	field    training.Field
	err      error
}

type themeResultMsg struct {
	dark bool
	err  error
}

type exportResultMsg struct {
	path string
	err  error
}

// NewModel seeds a Bubble Tea model with required collaborators.
func NewModel(ctx context.Context, tr *tracker.Tracker) Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 0 // values are free text of any length
	input.Width = cellWidth

	m := Model{
		ctx:     ctx,
		tracker: tr,
		column:  training.FieldWeight,
		mode:    modeNormal,
		input:   input,
		keys:    defaultKeyMap(),
		help:    help.New(),
		styles:  newStyles(tr.DarkMode()),
	}
	if warning := tr.Warning(); warning != "" {
		m.errorLine = warning
	} else {
		m.statusLine = "Select a set and press enter to log it."
	}
	return m
}

// Init has nothing to load; the tracker already holds the log.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case updateResultMsg:
		return m.handleUpdateResult(msg)
	case themeResultMsg:
		return m.handleThemeResult(msg)
	case exportResultMsg:
		return m.handleExportResult(msg)
	default:
		if m.mode == modeEdit {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeEdit {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.PrevDay):
		return m.gotoDay(m.dayIndex - 1), nil
	case key.Matches(msg, m.keys.NextDay):
		return m.gotoDay(m.dayIndex + 1), nil
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < m.rowCount()-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Column):
		if m.column == training.FieldWeight {
			m.column = training.FieldReps
		} else {
			m.column = training.FieldWeight
		}
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, m.keys.Filter):
		m.filterIndex = (m.filterIndex + 1) % (len(m.tracker.ExerciseOptions()) + 1)
		m.statusLine = fmt.Sprintf("Chart: %s", m.filterLabel())
		m.errorLine = ""
	case key.Matches(msg, m.keys.Theme):
		m.statusLine = "Switching theme..."
		m.errorLine = ""
		return m, m.toggleThemeCmd()
	case key.Matches(msg, m.keys.Export):
		m.statusLine = "Exporting..."
		m.errorLine = ""
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitInput()
	case tea.KeyEsc:
		return m.cancelInput("Cancelled.")
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	day, exercise, set, ok := m.selection()
	if !ok {
		return m, nil
	}

	m.mode = modeEdit
	m.input.SetValue(m.tracker.Record(day, exercise, set).Value(m.column))
	m.input.CursorEnd()
	m.statusLine = fmt.Sprintf("Editing %s set %d %s (enter to save, esc to cancel)", exercise, set+1, m.column)
	m.errorLine = ""
	return m, m.input.Focus()
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	day, exercise, set, ok := m.selection()
	if !ok {
		return m.cancelInput("No set selected.")
	}

	cmd := m.updateCmd(day, exercise, set, m.column, m.input.Value())
	m.mode = modeNormal
	m.input.Blur()
	m.input.Reset()
	m.statusLine = "Saving..."
	m.errorLine = ""
	return m, cmd
}

func (m Model) cancelInput(message string) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	m.input.Blur()
	m.input.Reset()
	if message != "" {
		m.statusLine = message
	}
	m.errorLine = ""
	return m, nil
}

func (m Model) handleUpdateResult(msg updateResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Save failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.statusLine = fmt.Sprintf("Saved %s / %s set %d %s.", msg.day, msg.exercise, msg.set+1, msg.field)
	m.errorLine = ""
	return m, nil
}

func (m Model) handleThemeResult(msg themeResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Theme change failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.styles = newStyles(msg.dark)
	if msg.dark {
		m.statusLine = "Dark mode on."
	} else {
		m.statusLine = "Dark mode off."
	}
	m.errorLine = ""
	return m, nil
}

func (m Model) handleExportResult(msg exportResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Export failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.statusLine = fmt.Sprintf("Exported to %s", msg.path)
	m.errorLine = ""
	return m, nil
}

func (m Model) gotoDay(index int) Model {
	days := m.tracker.Schedule().Days()
	m.dayIndex = (index + len(days)) % len(days)
	m.row = min(m.row, m.rowCount()-1)
	m.statusLine = ""
	m.errorLine = ""
	return m
}

func (m Model) updateCmd(day, exercise string, set int, field training.Field, value string) tea.Cmd {
	tr := m.tracker
	ctx := m.ctx
	return func() tea.Msg {
		_, err := tr.Update(ctx, day, exercise, set, field, value)
		return updateResultMsg{
			day:      day,
			exercise: exercise,
			set:      set,
			field:    field,
			err:      err,
		}
	}
}

func (m Model) toggleThemeCmd() tea.Cmd {
	tr := m.tracker
	ctx := m.ctx
	return func() tea.Msg {
		dark, err := tr.ToggleDarkMode(ctx)
		return themeResultMsg{dark: dark, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	tr := m.tracker
	return func() tea.Msg {
		path, err := tr.ExportFile(training.CSVFilename, tr.CSVOptions())
		return exportResultMsg{path: path, err: err}
	}
}

func (m Model) currentDay() string {
	return m.tracker.Schedule().Days()[m.dayIndex]
}

func (m Model) rowCount() int {
	return len(m.tracker.Schedule().Exercises(m.currentDay())) * training.SetsPerExercise
}

// selection maps the cursor row onto the exercise and set it points at.
func (m Model) selection() (day, exercise string, set int, ok bool) {
	day = m.currentDay()
	exercises := m.tracker.Schedule().Exercises(day)
	index := m.row / training.SetsPerExercise
	if index < 0 || index >= len(exercises) {
		return "", "", 0, false
	}
	return day, exercises[index], m.row % training.SetsPerExercise, true
}

func (m Model) filter() string {
	if m.filterIndex == 0 {
		return ""
	}
	return m.tracker.ExerciseOptions()[m.filterIndex-1]
}

func (m Model) filterLabel() string {
	if f := m.filter(); f != "" {
		return f
	}
	return AllExercises
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.title.Render("angkat · weekly training log"))
	b.WriteString("\n\n")

	days := m.tracker.Schedule().Days()
	tabs := make([]string, len(days))
	for i, day := range days {
		if i == m.dayIndex {
			tabs[i] = s.tabActive.Render(day)
		} else {
			tabs[i] = s.tab.Render(day)
		}
	}
	b.WriteString(strings.Join(tabs, ""))
	b.WriteString("\n\n")

	m.writeDay(&b)
	b.WriteByte('\n')
	m.writeChart(&b)

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(s.warn.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(s.ok.Render(m.statusLine))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) writeDay(b *strings.Builder) {
	s := m.styles
	day := m.currentDay()
	store := m.tracker.Snapshot()

	for i, exercise := range m.tracker.Schedule().Exercises(day) {
		b.WriteString(s.exercise.Render(exercise))
		b.WriteByte('\n')
		for set := 0; set < training.SetsPerExercise; set++ {
			row := i*training.SetsPerExercise + set
			record := store.Record(day, exercise, set)

			cursor := "  "
			if row == m.row {
				cursor = "> "
			}
			fmt.Fprintf(b, "%sSet %d  weight %s  reps %s\n",
				cursor, set+1,
				m.renderCell(row, training.FieldWeight, record.Weight),
				m.renderCell(row, training.FieldReps, record.Reps))
		}
	}
}

func (m Model) renderCell(row int, field training.Field, value string) string {
	s := m.styles
	active := row == m.row && field == m.column
	if active && m.mode == modeEdit {
		return "[" + m.input.View() + "]"
	}

	if value == "" {
		value = "-"
	}
	padded := fmt.Sprintf("%-*s", cellWidth, value)
	if active {
		return s.selected.Render(padded)
	}
	return s.cell.Render(padded)
}

func (m Model) writeChart(b *strings.Builder) {
	s := m.styles
	b.WriteString(s.title.Render("Average weight · " + m.filterLabel()))
	b.WriteByte('\n')

	points := m.tracker.Chart(m.filter())
	if len(points) == 0 {
		b.WriteString(s.dim.Render("(no data)"))
		b.WriteByte('\n')
		return
	}

	labelWidth := 0
	maxWeight := 0.0
	for _, point := range points {
		labelWidth = max(labelWidth, len([]rune(point.Label)))
		maxWeight = max(maxWeight, point.AvgWeight)
	}
	for _, point := range points {
		bar := fmt.Sprintf("%-*s", chartBarWidth, Bar(point.AvgWeight, maxWeight, chartBarWidth))
		fmt.Fprintf(b, "%-*s  %s  %s\n",
			labelWidth, point.Label,
			s.bar.Render(bar),
			s.dim.Render(fmt.Sprintf("%.1f × %.1f", point.AvgWeight, point.AvgReps)))
	}
}
