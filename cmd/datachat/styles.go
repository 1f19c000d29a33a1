package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cortexai/datachat/internal/models"
)

var (
	colorAccent = lipgloss.Color("39")
	colorDim    = lipgloss.Color("240")
	colorError  = lipgloss.Color("214")

	styleAnswer  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleApology = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	styleDimmed  = lipgloss.NewStyle().Foreground(colorDim)
	styleSQL     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable draws at most maxRows rows of res.
func renderTable(res *models.QueryResult, maxRows int) string {
	rows := res.Matrix()
	truncated := 0
	if maxRows > 0 && len(rows) > maxRows {
		truncated = len(rows) - maxRows
		rows = rows[:maxRows]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(res.Columns...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, v := range r {
			if v == nil {
				cells[i] = ""
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		t.Row(cells...)
	}

	out := t.Render()
	if truncated > 0 {
		out += "\n" + styleDimmed.Render(fmt.Sprintf("… %d more rows", truncated))
	}
	return out
}
