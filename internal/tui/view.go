package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Gentleman-Programming/taskboard/internal/app"
)

var filterTabs = []struct {
	filter app.Filter
	label  string
}{
	{app.FilterAll, "1 All"},
	{app.FilterActive, "2 Active"},
	{app.FilterCompleted, "3 Completed"},
}

// ─── View ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	v := app.Render(m.formState())

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewFilters(v))
	b.WriteString("\n\n")
	b.WriteString(m.viewTasks(v))
	b.WriteString("\n")
	b.WriteString(m.viewFooter(v))
	b.WriteString("\n\n")
	b.WriteString(m.viewForm(v))

	if m.Pending != nil {
		b.WriteString("\n\n")
		b.WriteString(confirmStyle.Render(m.Pending.Prompt + " (y/n)"))
	}
	if v.Notice != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Error: " + v.Notice))
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewHelp())

	return appStyle.Render(b.String())
}

func (m Model) viewHeader() string {
	header := headerStyle.Render("taskboard")
	if m.Busy {
		header += " " + m.Spinner.View()
	}
	return header
}

func (m Model) viewFilters(v app.View) string {
	parts := make([]string, 0, len(filterTabs))
	for _, tab := range filterTabs {
		if tab.filter == v.Filter {
			parts = append(parts, filterActiveStyle.Render(tab.label))
		} else {
			parts = append(parts, filterStyle.Render(tab.label))
		}
	}
	return strings.Join(parts, "   ")
}

func (m Model) viewTasks(v app.View) string {
	if len(v.Rows) == 0 {
		return placeholderStyle.Render(v.Placeholder) + "\n"
	}

	var b strings.Builder
	for i, row := range v.Rows {
		b.WriteString(m.renderTaskRow(i, row))
	}
	return b.String()
}

func (m Model) renderTaskRow(i int, row app.Row) string {
	cursor := "  "
	if i == m.Cursor && m.Focus == FocusList {
		cursor = cursorStyle.Render("▸ ")
	}

	check := "[ ]"
	title := taskTitleStyle.Render(row.Title)
	if row.Completed {
		check = "[x]"
		title = taskDoneStyle.Render(row.Title)
	}

	line := fmt.Sprintf("%s%s %s", cursor, check, title)
	if row.Editing {
		line += " " + editingStyle.Render("(editing)")
	}
	line += "\n"

	if row.Description != "" {
		line += taskDescStyle.Render(truncateStr(row.Description, 80)) + "\n"
	}
	return line
}

func (m Model) viewFooter(v app.View) string {
	footer := counterStyle.Render(v.Counter)
	if v.ShowClearCompleted {
		footer += helpStyle.Render("  ·  C clear completed")
	}
	return footer
}

func (m Model) viewForm(v app.View) string {
	titleLabel, descLabel := labelStyle, labelStyle
	switch m.Focus {
	case FocusTitle:
		titleLabel = focusedLabelStyle
	case FocusDescription:
		descLabel = focusedLabelStyle
	}

	buttons := buttonStyle.Render(v.SubmitLabel)
	if v.ShowCancel {
		buttons += " " + secondaryButtonStyle.Render("esc Cancel")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleLabel.Render("Title")+m.TitleInput.View(),
		descLabel.Render("Description")+m.DescriptionInput.View(),
		"",
		buttons,
	)
}

func (m Model) viewHelp() string {
	if m.Focus != FocusList {
		return helpStyle.Render("enter submit • tab next field • esc back")
	}
	return helpStyle.Render("j/k move • space toggle • e edit • d delete • f filter • tab new • r reload • q quit")
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func truncateStr(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
