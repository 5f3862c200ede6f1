// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/task-cli/internal/service"
	"github.com/nibzard/task-cli/internal/task"
)

// TaskService is the subset of the task facade the viewer uses.
// *service.Service implements it.
type TaskService interface {
	List() ([]task.Task, error)
	UpdateStatus(id int64, status task.Status) (task.Task, error)
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	timeFormat      string
	refreshInterval time.Duration
	tasksPath       string
}

// WithTimeFormat sets the layout used to display timestamps.
func WithTimeFormat(layout string) TUIOption {
	return func(c *tuiConfig) {
		if layout != "" {
			c.timeFormat = layout
		}
	}
}

// WithRefreshInterval sets how often the task file is re-read.
// Zero disables periodic refresh.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		c.refreshInterval = d
	}
}

// WithTasksPath sets the task file path shown in the footer.
func WithTasksPath(path string) TUIOption {
	return func(c *tuiConfig) {
		c.tasksPath = path
	}
}

// RunTUI starts the task viewer over svc.
func RunTUI(ctx context.Context, svc TaskService, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(svc, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type tuiModel struct {
	svc      TaskService
	cfg      tuiConfig
	tasks    []task.Task
	visible  []task.Task
	cursor   int
	filter   task.Status // zero shows every status
	loadErr  error
	notice   string
	loaded   bool
	busy     bool
	showHelp bool
}

type tickMsg time.Time

type tasksMsg struct {
	tasks []task.Task
	err   error
}

type markedMsg struct {
	task task.Task
	err  error
}

func newTUIModel(svc TaskService, opts ...TUIOption) *tuiModel {
	cfg := tuiConfig{
		timeFormat:      "2006-01-02 15:04",
		refreshInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &tuiModel{svc: svc, cfg: cfg}
}

func (m *tuiModel) Init() tea.Cmd {
	m.busy = true
	cmds := []tea.Cmd{loadCmd(m.svc)}
	if m.cfg.refreshInterval > 0 {
		cmds = append(cmds, tickCmd(m.cfg.refreshInterval))
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.cfg.refreshInterval)}
		if !m.busy {
			m.busy = true
			cmds = append(cmds, loadCmd(m.svc))
		}
		return m, tea.Batch(cmds...)
	case tasksMsg:
		m.busy = false
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.tasks = msg.tasks
		}
		m.applyFilter()
		return m, nil
	case markedMsg:
		switch {
		case errors.Is(msg.err, service.ErrNotFound):
			m.notice = "Task not found."
		case msg.err != nil:
			m.notice = "Error: " + msg.err.Error()
		default:
			m.notice = fmt.Sprintf("Task %d marked %s.", msg.task.ID, msg.task.Status.Label())
		}
		// Still busy: reload before accepting another call.
		return m, loadCmd(m.svc)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "r", "f5":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, loadCmd(m.svc)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil
	case "0":
		m.setFilter(0)
		return m, nil
	case "1":
		m.setFilter(task.StatusNotStarted)
		return m, nil
	case "2":
		m.setFilter(task.StatusInProgress)
		return m, nil
	case "3":
		m.setFilter(task.StatusDone)
		return m, nil
	case "t":
		return m, m.mark(task.StatusNotStarted)
	case "p":
		return m, m.mark(task.StatusInProgress)
	case "d", "x":
		return m, m.mark(task.StatusDone)
	}
	return m, nil
}

func (m *tuiModel) setFilter(status task.Status) {
	m.filter = status
	m.cursor = 0
	m.applyFilter()
}

// mark updates the selected task. It issues nothing while another call is
// outstanding.
func (m *tuiModel) mark(status task.Status) tea.Cmd {
	selected, ok := m.selected()
	if !ok || m.busy {
		return nil
	}
	m.busy = true
	svc := m.svc
	id := selected.ID
	return func() tea.Msg {
		t, err := svc.UpdateStatus(id, status)
		return markedMsg{task: t, err: err}
	}
}

func (m *tuiModel) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return task.Task{}, false
	}
	return m.visible[m.cursor], true
}

// applyFilter rebuilds the visible list and keeps the cursor in range.
func (m *tuiModel) applyFilter() {
	m.visible = m.visible[:0]
	for _, t := range m.tasks {
		if m.filter == 0 || t.Status == m.filter {
			m.visible = append(m.visible, t)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("task-cli") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.cfg)
		return b.String()
	}

	if m.filter != 0 {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter.Label()))
	}

	switch {
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("Error loading tasks:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
	case !m.loaded:
		b.WriteString("Loading...\n\n")
	default:
		writeOverview(&b, m.tasks)
		m.writeTasks(&b)
	}

	if m.notice != "" {
		b.WriteString(m.notice + "\n\n")
	}
	writeFooter(&b, m.cfg)
	return b.String()
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for i, t := range m.visible {
		line := fmt.Sprintf("%s %3d  %-12s %s", statusIcon(t.Status), t.ID, t.Status.Label(), t.Description)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + statusStyle(t.Status).Render(line) + "\n")
	}
	b.WriteString("\n")
	if t, ok := m.selected(); ok {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  created %s  updated %s",
			formatTime(t.CreatedAt, m.cfg.timeFormat),
			formatTime(t.UpdatedAt, m.cfg.timeFormat))) + "\n\n")
	}
}

func writeOverview(b *strings.Builder, tasks []task.Task) {
	counts := make(map[task.Status]int, len(task.Statuses))
	for _, t := range tasks {
		counts[t.Status]++
	}
	b.WriteString(fmt.Sprintf("  Todo: %d  In progress: %d  Done: %d\n\n",
		counts[task.StatusNotStarted],
		counts[task.StatusInProgress],
		counts[task.StatusDone],
	))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh tasks\n")
	b.WriteString("  up/k down/j  Move selection\n")
	b.WriteString("  t            Mark selected todo\n")
	b.WriteString("  p            Mark selected in-progress\n")
	b.WriteString("  d, x         Mark selected done\n")
	b.WriteString("  1            Filter by todo\n")
	b.WriteString("  2            Filter by in-progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  0            Clear filter\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, cfg tuiConfig) {
	footer := "Press h for help | q to quit"
	if cfg.refreshInterval > 0 {
		footer += fmt.Sprintf(" | Refreshing every %s", cfg.refreshInterval)
	}
	if cfg.tasksPath != "" {
		footer += " | " + cfg.tasksPath
	}
	b.WriteString(dimStyle.Render(footer) + "\n")
}

func loadCmd(svc TaskService) tea.Cmd {
	return func() tea.Msg {
		tasks, err := svc.List()
		return tasksMsg{tasks: tasks, err: err}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func statusIcon(s task.Status) string {
	switch s {
	case task.StatusInProgress:
		return ">"
	case task.StatusDone:
		return "x"
	default:
		return " "
	}
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	statusStyles  = map[task.Status]lipgloss.Style{
		task.StatusNotStarted: lipgloss.NewStyle(),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func statusStyle(s task.Status) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
