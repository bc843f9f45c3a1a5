package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"problem-tracker/internal/model"
	"problem-tracker/internal/view"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("LeetCode Tracker"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())

	if m.view.ShowAddModal {
		b.WriteString("\n")
		b.WriteString(m.renderModal())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failure {
			b.WriteString(errorStyle.Render("✖ " + m.status))
		} else {
			b.WriteString(successStyle.Render("✔ " + m.status))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return panelStyle.Render(b.String())
}

func (m Model) renderTabs() string {
	counts := m.view.Counts()
	labels := map[view.Tab]string{
		view.TabAll:       fmt.Sprintf("All (%d)", counts.All),
		view.TabPending:   fmt.Sprintf("Pending (%d)", counts.Pending),
		view.TabCompleted: fmt.Sprintf("Completed (%d)", counts.Completed),
	}

	parts := make([]string, 0, len(view.Tabs))
	for i, t := range view.Tabs {
		label := fmt.Sprintf("%d %s", i+1, labels[t])
		if t == m.view.ActiveTab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, mutedStyle.Render(label))
		}
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderList() string {
	list := m.view.Filtered()
	if len(list) == 0 {
		return mutedStyle.Render("No problems in this category")
	}

	lines := make([]string, 0, len(list))
	for i, p := range list {
		lines = append(lines, m.renderRow(i, p))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int, p model.Problem) string {
	mark := pendingStyle.Render("•")
	if m.view.IsDone(p) {
		mark = successStyle.Render("✔")
	}

	line := fmt.Sprintf("%s #%s %s", mark, p.Text("lcId"), p.Text("title"))
	if s, ok := m.view.StatusOf(p); ok && s.Count() > 0 {
		line += accentStyle.Render(fmt.Sprintf("  ×%g", s.Count()))
	}
	if url := p.Text("url"); url != "" {
		line += "  " + mutedStyle.Render(url)
	}

	prefix := "  "
	if i == m.cursor {
		prefix = selectedStyle.Render("> ")
	}
	return prefix + line
}

func (m Model) renderModal() string {
	rows := make([]string, 0, len(m.inputs)+1)
	rows = append(rows, titleStyle.Render("Add problem"))
	for i, in := range m.inputs {
		rows = append(rows, fmt.Sprintf("%-12s %s", fieldLabels[i], in.View()))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) helpLine() string {
	if m.view.ShowAddModal {
		return "tab next field • enter submit • esc cancel"
	}
	bindings := []key.Binding{keys.Tabs, keys.Up, keys.Down}
	if m.view.ActiveTab == view.TabPending {
		bindings = append(bindings, keys.Done)
	}
	bindings = append(bindings, keys.Add, keys.Refresh, keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " • ")
}
