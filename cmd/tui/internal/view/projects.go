package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/andremfs/bookline/internal/normalize"
	"github.com/andremfs/bookline/internal/project"
)

type projectsState int

const (
	projectsStateBrowse projectsState = iota
	projectsStateAdd
)

type ProjectsModel struct {
	CommonModel
	projService *project.Service

	state    projectsState
	table    table.Model
	accounts []project.Account
	form     *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formCode string
	formName string
	formBOD  string
}

func NewProjectsModel(projSvc *project.Service) ProjectsModel {
	columns := []table.Column{
		{Title: "Code", Width: 12},
		{Title: "Name", Width: 36},
		{Title: "BOD Category", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ProjectsModel{
		projService: projSvc,
		table:       t,
	}
}

func (m ProjectsModel) Title() string { return "Project Accounts" }

func (m ProjectsModel) ShortHelp() string {
	if m.state == projectsStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | r: refresh"
}

func (m ProjectsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.accounts = msg.accounts
		m.err = nil
		m.refreshTable()

		return m, nil

	case projectsWriteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.state = projectsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == projectsStateAdd {
		return m.updateAdd(msg)
	}

	return m.updateBrowse(msg)
}

func (m ProjectsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "x":
			return m.deleteCurrent()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProjectsModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formCode = ""
	m.formName = ""
	m.formBOD = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("code").
				Title("Code").
				Value(&m.formCode).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("code cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("bod_category").
				Title("BOD Category").
				Value(&m.formBOD),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = projectsStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProjectsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = projectsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m ProjectsModel) deleteCurrent() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return m, nil
	}

	id := m.accounts[idx].ID

	return m, func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.projService.Delete(ctx, id); err != nil {
			return projectsWriteMsg{err: err}
		}

		return projectsWriteMsg{status: "Deleted."}
	}
}

func (m ProjectsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading project accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == projectsStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Project Account\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProjectsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))

	for _, a := range m.accounts {
		rows = append(rows, table.Row{a.Code, a.Name, a.BODCategory})
	}

	m.table.SetRows(rows)
}

// Messages

type projectsLoadMsg struct {
	accounts []project.Account
	err      error
}

func (m ProjectsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.projService.List(ctx)

		return projectsLoadMsg{accounts: accounts, err: err}
	}
}

type projectsWriteMsg struct {
	status string
	err    error
}

func (m ProjectsModel) createCmd() tea.Cmd {
	c := project.Candidate{
		Code:        strings.TrimSpace(m.formCode),
		Name:        strings.TrimSpace(m.formName),
		BODCategory: normalize.Optional(m.formBOD),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.projService.Create(ctx, c); err != nil {
			return projectsWriteMsg{err: err}
		}

		return projectsWriteMsg{status: "Created."}
	}
}
