package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/normalize"
	"github.com/andremfs/bookline/internal/transaction"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateEdit
	ledgerStateBalance
)

type LedgerModel struct {
	CommonModel
	txService *transaction.Service

	state ledgerState
	table table.Model
	lines []transaction.LedgerLine
	form  *huh.Form

	startingBalance int64
	// dirty is set while row moves have not been written back.
	dirty bool

	loading bool
	err     error
	status  string

	// Form bindings
	formDate     string
	formDesc     string
	formExpense  string
	formIncome   string
	formStatus   transaction.Status
	formProject  string
	formCategory string
	formBalance  string
}

func NewLedgerModel(txSvc *transaction.Service) LedgerModel {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 36},
		{Title: "Expense", Width: 10},
		{Title: "Income", Width: 10},
		{Title: "Balance", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Project", Width: 20},
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

	return LedgerModel{
		txService: txSvc,
		table:     t,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	if m.state != ledgerStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | x: delete | J/K: move row | o: save order | b: starting balance | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.lines = msg.lines
		m.err = nil
		m.dirty = false
		m.refreshTable()

		return m, nil

	case ledgerWriteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ledgerStateBrowse:
		return m.updateBrowse(msg)
	case ledgerStateEdit, ledgerStateBalance:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			return m.deleteCurrent()
		case "J":
			m.moveCurrent(1)
			return m, nil
		case "K":
			m.moveCurrent(-1)
			return m, nil
		case "o":
			if !m.dirty {
				return m, nil
			}

			return m, m.reorderCmd()
		case "b":
			return m.enterBalanceMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// moveCurrent swaps the selected row with its neighbour and recomputes the
// running balances locally. Nothing is written until the order is saved.
func (m *LedgerModel) moveCurrent(delta int) {
	idx := m.table.Cursor()
	target := idx + delta

	if idx < 0 || idx >= len(m.lines) || target < 0 || target >= len(m.lines) {
		return
	}

	txs := make([]*transaction.Transaction, len(m.lines))
	for i, line := range m.lines {
		txs[i] = line.Transaction
	}

	txs[idx], txs[target] = txs[target], txs[idx]

	m.lines = transaction.RunningBalance(txs, m.startingBalance)
	m.dirty = true
	m.refreshTable()
	m.table.SetCursor(target)
}

func (m LedgerModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lines) {
		return m, nil
	}

	tx := m.lines[idx].Transaction
	m.formDate = FormatDate(tx.Date)
	m.formDesc = tx.Description
	m.formExpense = FormatAmount(tx.Expense)
	m.formIncome = FormatAmount(tx.Income)
	m.formStatus = tx.Status
	m.formProject = ""
	m.formCategory = ""

	if tx.ProjectCode != nil {
		m.formProject = *tx.ProjectCode
	}

	if tx.Category != nil {
		m.formCategory = *tx.Category
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Value(&m.formDate),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("expense").
				Title("Expense").
				Value(&m.formExpense),

			huh.NewInput().
				Key("income").
				Title("Income").
				Value(&m.formIncome),

			huh.NewSelect[transaction.Status]().
				Key("status").
				Title("Status").
				Options(
					huh.NewOption("Draft", transaction.StatusDraft),
					huh.NewOption("Pending", transaction.StatusPending),
					huh.NewOption("Completed", transaction.StatusCompleted),
				).
				Value(&m.formStatus),

			huh.NewInput().
				Key("project").
				Title("Project code").
				Value(&m.formProject),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.formCategory),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) enterBalanceMode() (tea.Model, tea.Cmd) {
	m.formBalance = FormatAmount(m.startingBalance)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("balance").
				Title("Starting balance").
				Value(&m.formBalance),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateBalance
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ledgerStateBrowse
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

	if m.state == ledgerStateBalance {
		m.startingBalance = normalize.New().Amount(m.formBalance).Cents
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	}

	return m, m.saveCmd()
}

func (m LedgerModel) deleteCurrent() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lines) {
		return m, nil
	}

	id := m.lines[idx].Transaction.ID

	return m, func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Delete(ctx, id); err != nil {
			return ledgerWriteMsg{err: err}
		}

		return ledgerWriteMsg{status: "Deleted."}
	}
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Starting balance: %s", FormatAmount(m.startingBalance))
	if m.dirty {
		header += lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("  (order changed, press o to save)")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != ledgerStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.lines))

	for _, line := range m.lines {
		tx := line.Transaction

		seq := ""
		if tx.SequenceNumber > 0 {
			seq = fmt.Sprintf("%d", tx.SequenceNumber)
		}

		projectName := ""
		if tx.Project != nil {
			projectName = tx.Project.Name
		} else if tx.ProjectCode != nil {
			projectName = *tx.ProjectCode
		}

		rows = append(rows, table.Row{
			seq,
			FormatDate(tx.Date),
			tx.Description,
			FormatAmount(tx.Expense),
			FormatAmount(tx.Income),
			FormatAmount(line.Balance),
			string(tx.Status),
			projectName,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type ledgerLoadMsg struct {
	lines []transaction.LedgerLine
	err   error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	balance := m.startingBalance

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		lines, err := m.txService.Ledger(ctx, balance)

		return ledgerLoadMsg{lines: lines, err: err}
	}
}

type ledgerWriteMsg struct {
	status string
	err    error
}

func (m LedgerModel) reorderCmd() tea.Cmd {
	ids := make([]uuid.UUID, len(m.lines))
	for i, line := range m.lines {
		ids[i] = line.Transaction.ID
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Reorder(ctx, ids); err != nil {
			return ledgerWriteMsg{err: err}
		}

		return ledgerWriteMsg{status: "Order saved."}
	}
}

func (m LedgerModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lines) {
		return nil
	}

	tx := m.lines[idx].Transaction
	norm := normalize.New()

	patch := transaction.Patch{}

	if dateRes := norm.Date(m.formDate); !dateRes.Defaulted && !dateRes.Value.Equal(tx.Date) {
		patch.Date = &dateRes.Value
	}

	if m.formDesc != tx.Description {
		desc := m.formDesc
		patch.Description = &desc
	}

	if cents := norm.Amount(m.formExpense).Cents; cents != tx.Expense {
		patch.Expense = &cents
	}

	if cents := norm.Amount(m.formIncome).Cents; cents != tx.Income {
		patch.Income = &cents
	}

	if m.formStatus != tx.Status {
		status := m.formStatus
		patch.Status = &status
	}

	if project := normalize.Optional(m.formProject); project != nil {
		if tx.ProjectCode == nil || *tx.ProjectCode != *project {
			patch.ProjectCode = project
		}
	}

	if category := normalize.Optional(m.formCategory); category != nil {
		if tx.Category == nil || *tx.Category != *category {
			patch.Category = category
		}
	}

	if patch.Empty() {
		return func() tea.Msg {
			return ledgerWriteMsg{status: "No changes."}
		}
	}

	id := tx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Update(ctx, id, patch); err != nil {
			return ledgerWriteMsg{err: err}
		}

		return ledgerWriteMsg{status: "Saved."}
	}
}
