package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nibzard/task-cli/internal/task"
)

const detailRule = "====================================="

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	doneStyle   = cellStyle.Foreground(lipgloss.Color("10"))
	activeStyle = cellStyle.Foreground(lipgloss.Color("11"))
)

// renderTask formats a single task as a labelled block ending in a newline.
func renderTask(t task.Task, layout string) string {
	var b strings.Builder
	b.WriteString(detailRule + "\n")
	fmt.Fprintf(&b, "| %-12s: %d\n", "ID", t.ID)
	fmt.Fprintf(&b, "| %-12s: %s\n", "Description", t.Description)
	fmt.Fprintf(&b, "| %-12s: %s\n", "Status", t.Status.Label())
	fmt.Fprintf(&b, "| %-12s: %s\n", "Created At", formatTime(t.CreatedAt, layout))
	fmt.Fprintf(&b, "| %-12s: %s\n", "Updated At", formatTime(t.UpdatedAt, layout))
	b.WriteString(detailRule + "\n")
	return b.String()
}

// renderTaskList formats tasks as a numbered table.
func renderTaskList(tasks []task.Task, layout string) string {
	rows := make([][]string, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(t.ID, 10),
			truncate(t.Description, maxListedTitles),
			t.Status.Label(),
			formatTime(t.CreatedAt, layout),
			formatTime(t.UpdatedAt, layout),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("N°", "ID", "Description", "Status", "Created At", "Updated At").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col != 3 || row < 0 || row >= len(tasks) {
				return cellStyle
			}
			switch tasks[row].Status {
			case task.StatusDone:
				return doneStyle
			case task.StatusInProgress:
				return activeStyle
			}
			return cellStyle
		})

	return "Tasks List\n" + tbl.String()
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
