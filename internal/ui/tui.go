// Package ui provides the terminal board interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kanbo/kanbo-go/internal/board"
	"github.com/kanbo/kanbo-go/internal/store"
	"github.com/kanbo/kanbo-go/internal/task"
)

const (
	columnWidth  = 28
	cardTitleMax = 24
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(columnWidth)

	focusedColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("62"))

	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("252"))

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	draggingCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// inputMode tracks what keystrokes currently mean.
type inputMode int

const (
	modeBoard inputMode = iota
	modeTitle
	modeDescription
)

// RunBoard starts the interactive board over the given store.
func RunBoard(ctx context.Context, st *store.Store) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("board requires a TTY")
	}

	model := newBoardModel(ctx, st)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type boardModel struct {
	ctx  context.Context
	st   *store.Store
	ctrl *board.Controller

	cols  []board.Column
	stats board.Stats

	focusCol int
	cursor   [3]int

	mode       inputMode
	titleInput string
	descInput  string

	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newBoardModel(ctx context.Context, st *store.Store) *boardModel {
	m := &boardModel{
		ctx:          ctx,
		st:           st,
		ctrl:         board.NewController(st),
		tickInterval: time.Second,
	}
	m.refresh()
	return m
}

func (m *boardModel) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeBoard {
			return m.updateInput(msg)
		}
		return m.updateBoard(msg)
	case tickMsg:
		// Another process may share the same board key; pick up its writes.
		m.st.Reload(m.ctx)
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

// updateBoard handles keys in navigation mode.
func (m *boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		if m.ctrl.Dragging() != "" {
			m.ctrl.Cancel()
		} else {
			m.showHelp = false
		}
	case "left", "h":
		if m.focusCol > 0 {
			m.focusCol--
		}
	case "right", "l":
		if m.focusCol < len(m.cols)-1 {
			m.focusCol++
		}
	case "up", "k":
		if m.cursor[m.focusCol] > 0 {
			m.cursor[m.focusCol]--
		}
	case "down", "j":
		if m.cursor[m.focusCol] < len(m.cols[m.focusCol].Tasks)-1 {
			m.cursor[m.focusCol]++
		}
	case " ", "enter":
		m.pickUpOrDrop()
	case "n":
		m.mode = modeTitle
		m.titleInput = ""
		m.descInput = ""
	case "d":
		if t := m.selectedTask(); t != nil && !t.IsPlaceholder() {
			m.st.Remove(m.ctx, t.ID)
			m.refresh()
		}
	case "r", "f5":
		m.st.Reload(m.ctx)
		m.refresh()
	}
	return m, nil
}

// updateInput handles keys while the new-task form is open.
func (m *boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := &m.titleInput
	if m.mode == modeDescription {
		field = &m.descInput
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeBoard
	case "enter":
		if m.mode == modeTitle {
			// Presence of a title is a form-level guard, not a store rule.
			if strings.TrimSpace(m.titleInput) == "" {
				return m, nil
			}
			m.mode = modeDescription
			return m, nil
		}
		m.st.Create(m.ctx, strings.TrimSpace(m.titleInput), strings.TrimSpace(m.descInput))
		m.mode = modeBoard
		m.refresh()
	case "backspace":
		if len(*field) > 0 {
			runes := []rune(*field)
			*field = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			*field += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			*field += " "
		}
	}
	return m, nil
}

// pickUpOrDrop toggles the drag gesture: first press carries the selected
// card, second press drops it onto the focused column.
func (m *boardModel) pickUpOrDrop() {
	if m.ctrl.Dragging() == "" {
		if t := m.selectedTask(); t != nil && !t.IsPlaceholder() {
			m.ctrl.BeginDrag(t.ID)
		}
		return
	}
	if m.ctrl.Drop(m.ctx, m.cols[m.focusCol].Status) {
		m.refresh()
	}
}

func (m *boardModel) selectedTask() *task.Task {
	col := m.cols[m.focusCol]
	row := m.cursor[m.focusCol]
	if row < 0 || row >= len(col.Tasks) {
		return nil
	}
	return &col.Tasks[row]
}

// refresh pulls a fresh snapshot and rebuilds the columns.
func (m *boardModel) refresh() {
	snapshot := m.st.Tasks()
	m.cols = board.Columns(snapshot)
	m.stats = board.Collect(snapshot)
	for i := range m.cols {
		if m.cursor[i] >= len(m.cols[i].Tasks) {
			m.cursor[i] = len(m.cols[i].Tasks) - 1
		}
		if m.cursor[i] < 0 {
			m.cursor[i] = 0
		}
	}
}

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Kanbo") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	if m.mode != modeBoard {
		m.writeForm(&b)
		return b.String()
	}

	b.WriteString(m.renderColumns())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Backlog: %d  In Progress: %d  Done: %d  |  %s%% complete\n",
		m.stats.Backlog, m.stats.InProgress, m.stats.Done, m.stats.PercentString()))

	if id := m.ctrl.Dragging(); id != "" {
		b.WriteString(draggingCardStyle.Render("Carrying a card; space drops it on the focused column, esc cancels") + "\n")
	}

	b.WriteString(helpStyle.Render("n new | d delete | space move | ? help | q quit") + "\n")
	return b.String()
}

func (m *boardModel) renderColumns() string {
	rendered := make([]string, 0, len(m.cols))
	for i, col := range m.cols {
		rendered = append(rendered, m.renderColumn(i, col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *boardModel) renderColumn(idx int, col board.Column) string {
	var b strings.Builder

	count := len(col.Tasks)
	if col.IsEmpty() {
		count = 0
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", col.Status.Label(), count)))
	b.WriteString("\n\n")

	for row, t := range col.Tasks {
		b.WriteString(m.renderCard(idx, row, t))
		b.WriteString("\n")
	}

	style := columnStyle
	if idx == m.focusCol {
		style = focusedColumnStyle
	}
	return style.Render(b.String())
}

func (m *boardModel) renderCard(colIdx, row int, t task.Task) string {
	if t.IsPlaceholder() {
		return placeholderStyle.Render("  " + t.Title)
	}

	line := "• " + truncate(t.Title, cardTitleMax)
	switch {
	case m.ctrl.Dragging() == t.ID:
		return draggingCardStyle.Render("> " + truncate(t.Title, cardTitleMax))
	case colIdx == m.focusCol && row == m.cursor[colIdx]:
		return selectedCardStyle.Render(line)
	}
	return line
}

func (m *boardModel) writeForm(b *strings.Builder) {
	b.WriteString("New Task\n\n")
	cursor := func(active bool) string {
		if active {
			return "_"
		}
		return ""
	}
	b.WriteString(fmt.Sprintf("  Title:       %s%s\n", m.titleInput, cursor(m.mode == modeTitle)))
	b.WriteString(fmt.Sprintf("  Description: %s%s\n\n", m.descInput, cursor(m.mode == modeDescription)))
	b.WriteString(helpStyle.Render("enter next/submit | esc cancel") + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c        Quit\n")
	b.WriteString("  left/right, h/l  Focus column\n")
	b.WriteString("  up/down, k/j     Select card\n")
	b.WriteString("  space, enter     Pick up / drop the selected card\n")
	b.WriteString("  esc              Cancel carry\n")
	b.WriteString("  n                New task\n")
	b.WriteString("  d                Delete selected task\n")
	b.WriteString("  r, F5            Refresh\n")
	b.WriteString("  ?                Toggle this help screen\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
