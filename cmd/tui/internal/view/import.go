package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/andremfs/bookline/internal/importer"
	"github.com/andremfs/bookline/internal/project"
	"github.com/andremfs/bookline/internal/reconcile"
	"github.com/andremfs/bookline/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importEntity string

const (
	entityTransactions importEntity = "Transactions"
	entityAccounts     importEntity = "Project accounts"
)

type importState int

const (
	importStateEntitySelect importState = iota
	importStateFilePick
	importStateOptions
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service
	txService     *transaction.Service
	projService   *project.Service

	state        importState
	filePicker   filepicker.Model
	entities     []importEntity
	entityCursor int
	entity       importEntity
	path         string

	optionsForm *huh.Form
	skipHeader  bool

	summary *reconcile.Summary
	status  string
	err     error
}

func NewImportModel(impSvc *importer.Service, txSvc *transaction.Service, projSvc *project.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		txService:     txSvc,
		projService:   projSvc,
		filePicker:    fp,
		entities:      []importEntity{entityTransactions, entityAccounts},
	}
}

func (m ImportModel) Title() string { return "Import" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != importStateOptions {
			return m.handleEsc()
		}

		if m.state == importStateEntitySelect {
			return m.updateEntitySelect(msg)
		}

	case importDoneMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.summary = msg.summary
		m.status = fmt.Sprintf("inserted %d, updated %d, duplicates %d, invalid %d, failed %d",
			msg.summary.Inserted, msg.summary.Updated, msg.summary.Duplicates,
			msg.summary.Invalid, msg.summary.Failed)

		return m, nil
	}

	switch m.state {
	case importStateFilePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.path = path
			m.skipHeader = false
			m.optionsForm = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Skip first row?").
						Description("Drop a header row before importing").
						Value(&m.skipHeader),
				),
			).WithShowHelp(false)
			m.state = importStateOptions

			return m, m.optionsForm.Init()
		}

		return m, cmd

	case importStateOptions:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = importStateFilePick
			m.optionsForm = nil

			return m, nil
		}

		form, cmd := m.optionsForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.optionsForm = f
		}

		if m.optionsForm.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", m.path)

		return m, m.importCmd()
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateEntitySelect
		return m, nil
	case importStateResult:
		m.state = importStateEntitySelect
		m.summary = nil
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateEntitySelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.entityCursor > 0 {
			m.entityCursor--
		}
	case tea.KeyDown:
		if m.entityCursor < len(m.entities)-1 {
			m.entityCursor++
		}
	case tea.KeyEnter:
		m.entity = m.entities[m.entityCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateEntitySelect:
		return m.viewEntitySelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.entity, m.filePicker.View()),
		)
	case importStateOptions:
		return lipgloss.NewStyle().Padding(1).Render(m.optionsForm.View())
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewEntitySelect() string {
	s := "Import what?\n\n"

	for i, entity := range m.entities {
		cursor := " "
		if i == m.entityCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, entity)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status))

	for _, row := range m.summary.Rows {
		if row.Outcome != reconcile.OutcomeInvalid && row.Outcome != reconcile.OutcomeFailed && len(row.Notes) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\nrow %d (%s)", row.Row+1, row.Outcome)

		for _, e := range row.Errors {
			fmt.Fprintf(&b, "\n  %s", e)
		}

		for _, n := range row.Notes {
			fmt.Fprintf(&b, "\n  %s", n)
		}
	}

	b.WriteString("\n\n(Esc to go back)")

	return style.Render(b.String())
}

// Messages

type importDoneMsg struct {
	summary *reconcile.Summary
	err     error
}

func (m ImportModel) importCmd() tea.Cmd {
	entity := m.entity
	path := m.path
	opts := importer.Options{SkipHeader: m.skipHeader}

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		opts.Format = importer.FormatXLSX
	}

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		var summary *reconcile.Summary

		switch entity {
		case entityAccounts:
			records, err := m.importService.ParseAccounts(ctx, f, opts)
			if err != nil {
				return importDoneMsg{err: err}
			}

			summary, err = m.projService.ImportChart(ctx, records)
			if err != nil {
				return importDoneMsg{err: err}
			}
		default:
			records, err := m.importService.ParseTransactions(ctx, f, opts)
			if err != nil {
				return importDoneMsg{err: err}
			}

			summary, err = m.txService.Import(ctx, records)
			if err != nil {
				return importDoneMsg{err: err}
			}
		}

		return importDoneMsg{summary: summary}
	}
}
