package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasknest/tasknest/cmd/tui/client"
)

type createTaskSuccessMsg struct {
	title string
}

type createTaskErrorMsg struct {
	err error
}

type CreateModel struct {
	titleInput       string
	descriptionInput string
	dueDateInput     string
	priorityInput    string
	focusedInput     int
	loading          bool
	result           string
	err              error
	api              *client.APIClient
}

func (m *CreateModel) Init() tea.Cmd {
	return nil
}

func NewCreateModel() *CreateModel {
	return &CreateModel{
		focusedInput: 0,
	}
}

func (m *CreateModel) SetClient(c *client.APIClient) {
	m.api = c
}

func validatePriority(priority string) error {
	switch strings.ToLower(priority) {
	case "", "high", "medium", "low":
		return nil
	}
	return fmt.Errorf("priority must be high, medium, or low")
}

func createTaskCmd(c *client.APIClient, title, description, dueDate, priority string) tea.Cmd {
	return func() tea.Msg {
		task, err := c.CreateTask(client.CreateTaskRequest{
			Title:       title,
			Description: description,
			DueDate:     dueDate,
			Priority:    priority,
		})
		if err != nil {
			return createTaskErrorMsg{err: err}
		}

		return createTaskSuccessMsg{title: task.Title}
	}
}

func (m *CreateModel) inputs() []*string {
	return []*string{&m.titleInput, &m.descriptionInput, &m.dueDateInput, &m.priorityInput}
}

func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createTaskSuccessMsg:
		m.loading = false
		m.result = msg.title
		m.err = nil
		m.titleInput = ""
		m.descriptionInput = ""
		m.dueDateInput = ""
		m.priorityInput = ""
		m.focusedInput = 0
		return m, nil

	case createTaskErrorMsg:
		m.loading = false
		m.result = ""
		if errors.Is(msg.err, client.ErrSessionExpired) {
			return m, sessionExpiredCmd
		}
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		inputs := m.inputs()

		switch msg.String() {
		case "tab":
			m.focusedInput = (m.focusedInput + 1) % len(inputs)
		case "shift+tab":
			m.focusedInput = (m.focusedInput + len(inputs) - 1) % len(inputs)
		case "enter":
			if strings.TrimSpace(m.titleInput) == "" {
				m.err = fmt.Errorf("title cannot be empty")
				return m, nil
			}
			if err := validatePriority(m.priorityInput); err != nil {
				m.err = err
				return m, nil
			}

			if m.api != nil {
				m.loading = true
				m.err = nil
				m.result = ""
				return m, createTaskCmd(m.api, m.titleInput, m.descriptionInput, m.dueDateInput, m.priorityInput)
			} else {
				m.err = fmt.Errorf("API client not connected")
			}
		case "backspace":
			field := inputs[m.focusedInput]
			if len(*field) > 0 {
				*field = (*field)[:len(*field)-1]
			}
		case "ctrl+l":
			m.titleInput = ""
			m.descriptionInput = ""
			m.dueDateInput = ""
			m.priorityInput = ""
			m.result = ""
			m.err = nil
		default:
			if len(msg.String()) == 1 {
				*inputs[m.focusedInput] += msg.String()
			}
		}
	}
	return m, nil
}

func (m *CreateModel) renderField(label, value string, index int, hint string) string {
	fieldLabel := LabelStyle.Render(label)
	style := InputStyle
	if m.focusedInput == index {
		style = FocusedInputStyle
	}
	fieldValue := style.Width(50).Render(value)
	field := lipgloss.JoinHorizontal(lipgloss.Left, fieldLabel, fieldValue)
	if hint != "" {
		field = lipgloss.JoinHorizontal(lipgloss.Left, field, InfoStyle.Render(" "+hint))
	}
	return lipgloss.NewStyle().Width(90).Align(lipgloss.Center).Render(field)
}

func (m *CreateModel) View() string {
	var b strings.Builder

	header := TitleStyle.Render("📝 CREATE TASK")
	b.WriteString(lipgloss.NewStyle().
		Width(90).
		Align(lipgloss.Center).
		MarginTop(2).
		MarginBottom(2).
		Render(header))
	b.WriteString("\n\n")

	b.WriteString(m.renderField("Title:", m.titleInput, 0, ""))
	b.WriteString("\n\n")
	b.WriteString(m.renderField("Description:", m.descriptionInput, 1, "(optional)"))
	b.WriteString("\n\n")
	b.WriteString(m.renderField("Due date:", m.dueDateInput, 2, "(YYYY-MM-DD, optional)"))
	b.WriteString("\n\n")
	b.WriteString(m.renderField("Priority:", m.priorityInput, 3, "(high/medium/low, optional)"))
	b.WriteString("\n\n")

	if m.loading {
		loading := InfoStyle.Render("Creating task...")
		b.WriteString(lipgloss.NewStyle().Width(90).Align(lipgloss.Center).Render(loading))
		b.WriteString("\n")
	}

	if m.result != "" {
		success := SuccessStyle.Render("✓ Task created: " + truncate(m.result, 50))
		b.WriteString(lipgloss.NewStyle().Width(90).Align(lipgloss.Center).Render(success))
		b.WriteString("\n")
	}

	if m.err != nil {
		errMsg := ErrorStyle.Render("Error: " + m.err.Error())
		b.WriteString(lipgloss.NewStyle().Width(90).Align(lipgloss.Center).Render(errMsg))
		b.WriteString("\n")
	}

	help := InfoStyle.Render("tab switch  •  enter submit  •  ctrl+l clear  •  q back")
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(90).Align(lipgloss.Center).Render(help))

	return BoxStyle.Width(96).Render(b.String())
}
