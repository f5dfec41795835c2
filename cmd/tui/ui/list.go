package ui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasknest/tasknest/cmd/tui/client"
)

type listTasksSuccessMsg struct {
	tasks []client.Task
}

type listTasksErrorMsg struct {
	err error
}

type taskUpdatedMsg struct {
	task *client.Task
}

type taskDeletedMsg struct {
	id int64
}

type taskActionErrorMsg struct {
	err error
}

type ListModel struct {
	tasks   []client.Task
	cursor  int
	loading bool
	err     error
	api     *client.APIClient
	loaded  bool
}

func (m *ListModel) Init() tea.Cmd {
	return nil
}

func NewListModel() *ListModel {
	return &ListModel{
		tasks: []client.Task{},
	}
}

func (m *ListModel) SetClient(c *client.APIClient) {
	m.api = c
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func relativeTime(stamp string) string {
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return stamp
	}

	ago := time.Since(t)
	switch {
	case ago < time.Hour:
		return pluralize(int(ago.Minutes()), "min") + " ago"
	case ago < 24*time.Hour:
		return pluralize(int(ago.Hours()), "hour") + " ago"
	default:
		return pluralize(int(ago.Hours()/24), "day") + " ago"
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

func listTasksCmd(c *client.APIClient) tea.Cmd {
	return func() tea.Msg {
		tasks, err := c.ListTasks()
		if err != nil {
			return listTasksErrorMsg{err: err}
		}
		return listTasksSuccessMsg{tasks: tasks}
	}
}

func toggleTaskCmd(c *client.APIClient, id int64, completed bool) tea.Cmd {
	return func() tea.Msg {
		task, err := c.UpdateTask(id, map[string]interface{}{
			"completed": completed,
		})
		if err != nil {
			return taskActionErrorMsg{err: err}
		}
		return taskUpdatedMsg{task: task}
	}
}

func deleteTaskCmd(c *client.APIClient, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := c.DeleteTask(id); err != nil {
			return taskActionErrorMsg{err: err}
		}
		return taskDeletedMsg{id: id}
	}
}

func sessionExpiredCmd() tea.Msg {
	return sessionExpiredMsg{}
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listTasksSuccessMsg:
		m.loading = false
		m.tasks = msg.tasks
		m.err = nil
		m.loaded = true
		if m.cursor >= len(m.tasks) && m.cursor > 0 {
			m.cursor = len(m.tasks) - 1
		}
		return m, nil

	case listTasksErrorMsg:
		m.loading = false
		m.loaded = true
		if errors.Is(msg.err, client.ErrSessionExpired) {
			return m, sessionExpiredCmd
		}
		m.err = msg.err
		return m, nil

	case taskUpdatedMsg:
		m.loading = false
		for i := range m.tasks {
			if m.tasks[i].ID == msg.task.ID {
				m.tasks[i] = *msg.task
				break
			}
		}
		return m, nil

	case taskDeletedMsg:
		m.loading = false
		kept := m.tasks[:0]
		for _, task := range m.tasks {
			if task.ID != msg.id {
				kept = append(kept, task)
			}
		}
		m.tasks = kept
		if m.cursor >= len(m.tasks) && m.cursor > 0 {
			m.cursor = len(m.tasks) - 1
		}
		return m, nil

	case taskActionErrorMsg:
		m.loading = false
		if errors.Is(msg.err, client.ErrSessionExpired) {
			return m, sessionExpiredCmd
		}
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case "enter", " ":
			if !m.loading && m.cursor < len(m.tasks) {
				task := m.tasks[m.cursor]
				m.loading = true
				m.err = nil
				return m, toggleTaskCmd(m.api, task.ID, !task.Completed)
			}
		case "d":
			if !m.loading && m.cursor < len(m.tasks) {
				m.loading = true
				m.err = nil
				return m, deleteTaskCmd(m.api, m.tasks[m.cursor].ID)
			}
		case "r":
			if !m.loading {
				m.loading = true
				m.err = nil
				return m, listTasksCmd(m.api)
			}
		}
	}

	if !m.loaded && !m.loading && m.api != nil {
		m.loading = true
		return m, listTasksCmd(m.api)
	}

	return m, nil
}

func priorityBadge(priority *string) string {
	if priority == nil {
		return ""
	}
	switch *priority {
	case "high":
		return lipgloss.NewStyle().Foreground(Error).Bold(true).Render("● high")
	case "medium":
		return lipgloss.NewStyle().Foreground(Warning).Bold(true).Render("● medium")
	case "low":
		return lipgloss.NewStyle().Foreground(Success).Bold(true).Render("● low")
	}
	return ""
}

func (m *ListModel) View() string {
	var b strings.Builder

	header := TitleStyle.Render("YOUR TASKS")
	b.WriteString(lipgloss.NewStyle().
		Width(80).
		Align(lipgloss.Center).
		MarginTop(2).
		MarginBottom(2).
		Render(header))
	b.WriteString("\n\n")

	if m.loading && !m.loaded {
		loading := lipgloss.NewStyle().
			Foreground(Accent).
			Render("⏳ Loading tasks...")
		b.WriteString(lipgloss.NewStyle().Width(80).Align(lipgloss.Center).MarginTop(2).Render(loading))
		b.WriteString("\n")
	} else if m.err != nil {
		errMsg := ErrorStyle.Render("❌ " + m.err.Error())
		b.WriteString(lipgloss.NewStyle().Width(80).Align(lipgloss.Center).MarginTop(2).Render(errMsg))
		b.WriteString("\n")
	} else if len(m.tasks) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(Muted).
			Render("📝 No tasks yet. Create one first!")
		b.WriteString(lipgloss.NewStyle().Width(80).Align(lipgloss.Center).MarginTop(2).Render(empty))
		b.WriteString("\n")
	} else {
		// Display tasks as cards
		for i, task := range m.tasks {
			var cardStyle lipgloss.Style
			if i == m.cursor {
				cardStyle = lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(Accent).
					Padding(1, 2).
					Width(70).
					MarginBottom(1)
			} else {
				cardStyle = lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(Muted).
					Padding(1, 2).
					Width(70).
					MarginBottom(1)
			}

			check := "☐"
			titleStyle := lipgloss.NewStyle().Foreground(Text).Bold(true)
			if task.Completed {
				check = "✓"
				titleStyle = lipgloss.NewStyle().Foreground(Muted).Strikethrough(true)
			}
			titleLine := lipgloss.NewStyle().Foreground(Success).Render(check+" ") +
				titleStyle.Render(truncate(task.Title, 55))

			lines := []string{titleLine}

			if task.Description != "" {
				desc := lipgloss.NewStyle().Foreground(Text).Render(truncate(task.Description, 60))
				lines = append(lines, desc)
			}

			meta := lipgloss.NewStyle().Foreground(Muted).Render("Created " + relativeTime(task.CreatedAt))
			if task.DueDate != nil {
				due := lipgloss.NewStyle().Foreground(Secondary).Render("📅 due " + *task.DueDate)
				meta = due + lipgloss.NewStyle().Foreground(Muted).Render("  •  ") + meta
			}
			if badge := priorityBadge(task.Priority); badge != "" {
				meta = badge + lipgloss.NewStyle().Foreground(Muted).Render("  •  ") + meta
			}
			lines = append(lines, meta)

			card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
			b.WriteString(lipgloss.NewStyle().Width(80).Align(lipgloss.Center).Render(card))
		}
	}

	b.WriteString("\n")
	help := InfoStyle.Render("↑/↓ navigate  •  enter toggle done  •  d delete  •  r refresh  •  q back")
	b.WriteString(lipgloss.NewStyle().Width(80).Align(lipgloss.Center).Render(help))

	return BoxStyle.Width(76).Render(b.String())
}
