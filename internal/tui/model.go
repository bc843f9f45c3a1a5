// Package tui 终端版页面，状态规则与浏览器页面一致，都在 view 包中。
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"problem-tracker/internal/dto"
	"problem-tracker/internal/model"
	"problem-tracker/internal/view"
)

const requestTimeout = 10 * time.Second

// 命令在后台执行，结果只在 Update 中应用到视图
type fetchedMsg struct {
	resp *dto.ProblemsResponse
	err  error
}

type mutatedMsg struct {
	action string
	err    error
}

type keyMap struct {
	Tabs    key.Binding
	Next    key.Binding
	Up      key.Binding
	Down    key.Binding
	Done    key.Binding
	Add     key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Tabs:    key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "tab")),
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	Done:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "mark done")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var fieldLabels = [...]string{"ID", "LeetCode ID", "Title", "URL"}

type Model struct {
	api  view.API
	view *view.View

	cursor  int
	inputs  [4]textinput.Model
	focus   int
	status  string
	failure bool
}

func New(api view.API, now func() time.Time) Model {
	m := Model{
		api:  api,
		view: view.New(api, now),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = fieldLabels[i]
		ti.CharLimit = 200
		ti.Cursor.SetMode(cursor.CursorStatic)
		m.inputs[i] = ti
	}
	return m
}

// State 当前视图状态
func (m Model) State() *view.View { return m.view }

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) fetch() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := api.Fetch(ctx)
		return fetchedMsg{resp: resp, err: err}
	}
}

func (m Model) addProblem(p model.Problem) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return mutatedMsg{action: "added", err: api.AddProblem(ctx, p)}
	}
}

func (m Model) updateStatus(s model.ProblemStatus) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return mutatedMsg{action: "marked done", err: api.UpdateStatus(ctx, s)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.view.Apply(msg.resp)
		m.clampCursor()
		return m, nil
	case mutatedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.status, m.failure = msg.action, false
		return m, m.fetch()
	case tea.KeyMsg:
		if m.view.ShowAddModal {
			return m.updateModal(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Tabs):
		i, _ := strconv.Atoi(msg.String())
		m.view.SetTab(view.Tabs[i-1])
		m.cursor = 0
	case key.Matches(msg, keys.Next):
		for i, t := range view.Tabs {
			if t == m.view.ActiveTab {
				m.view.SetTab(view.Tabs[(i+1)%len(view.Tabs)])
				break
			}
		}
		m.cursor = 0
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.view.Filtered())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.fetch()
	case key.Matches(msg, keys.Add):
		m.view.OpenAddModal()
		m.focus = 0
		return m, m.focusInput()
	case key.Matches(msg, keys.Done):
		if m.view.ActiveTab != view.TabPending {
			return m, nil
		}
		list := m.view.Filtered()
		if m.cursor >= len(list) {
			return m, nil
		}
		return m, m.updateStatus(m.view.NextStatus(list[m.cursor]))
	}
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blurInputs()
		m.view.CancelAdd()
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.focusInput()
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
		return m, m.focusInput()
	case "enter":
		m.syncDraft()
		p := m.view.TakeDraft()
		m.blurInputs()
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		return m, m.addProblem(p)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncDraft()
	return m, cmd
}

// syncDraft 输入框内容写回草稿
func (m *Model) syncDraft() {
	m.view.NewProblem = view.Draft{
		ID:    m.inputs[0].Value(),
		LcID:  m.inputs[1].Value(),
		Title: m.inputs[2].Value(),
		URL:   m.inputs[3].Value(),
	}
}

func (m *Model) focusInput() tea.Cmd {
	m.blurInputs()
	return m.inputs[m.focus].Focus()
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) setError(err error) {
	m.status, m.failure = err.Error(), true
}

func (m *Model) clampCursor() {
	if n := len(m.view.Filtered()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}
