package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/andremfs/bookline/cmd/tui/internal/view"
	"github.com/andremfs/bookline/internal/config"
	"github.com/andremfs/bookline/internal/database"
	"github.com/andremfs/bookline/internal/importer"
	"github.com/andremfs/bookline/internal/project"
	projectStore "github.com/andremfs/bookline/internal/project/store"
	"github.com/andremfs/bookline/internal/transaction"
	txStore "github.com/andremfs/bookline/internal/transaction/store"
)

type model struct {
	txService     *transaction.Service
	projService   *project.Service
	importService *importer.Service

	currentView View

	importView   view.ImportModel
	ledgerView   view.LedgerModel
	projectsView view.ProjectsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewImport   View = 1
	ViewLedger   View = 2
	ViewProjects View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	profiles := importer.DefaultProfiles()

	if cfg.Import.ProfilesPath != "" {
		profiles, err = importer.LoadProfiles(cfg.Import.ProfilesPath)
		if err != nil {
			slog.Error("failed to load import profiles", "error", err)
			os.Exit(1)
		}
	}

	projSvc := project.NewService(projectStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), projSvc)
	impSvc := importer.NewService(profiles)

	return model{
		txService:     txSvc,
		projService:   projSvc,
		importService: impSvc,
		currentView:   ViewMenu,
		importView:    view.NewImportModel(impSvc, txSvc, projSvc),
		ledgerView:    view.NewLedgerModel(txSvc),
		projectsView:  view.NewProjectsModel(projSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService, m.txService, m.projService)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.txService)

				return m, m.ledgerView.Init()
			case "3":
				m.currentView = ViewProjects
				m.projectsView = view.NewProjectsModel(m.projService)

				return m, m.projectsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewProjects:
		var newModel tea.Model
		newModel, cmd = m.projectsView.Update(msg)
		m.projectsView = newModel.(view.ProjectsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Bookline TUI\n\n" +
				"1. Import\n" +
				"2. Ledger\n" +
				"3. Project Accounts\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewProjects:
		return m.projectsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
