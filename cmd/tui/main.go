package main

import (
	"errors"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/mandi/cmd/tui/internal/client"
	"github.com/MrJamesThe3rd/mandi/cmd/tui/internal/view"
)

type tuiConfig struct {
	APIURL   string        `envconfig:"MANDI_API_URL" default:"http://localhost:8080"`
	APIToken string        `envconfig:"MANDI_API_TOKEN" required:"true"`
	Timeout  time.Duration `envconfig:"MANDI_API_TIMEOUT" default:"30s"`
}

type screen int

const (
	screenMenu screen = iota
	screenClaims
	screenInvoices
	screenExport
	screenJobs
)

type model struct {
	api *client.Client

	current screen

	claimsView   view.ClaimsModel
	invoicesView view.InvoicesModel
	exportView   view.ExportModel
	jobsView     view.JobsModel
}

func initialModel() model {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	var cfg tuiConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	api := client.New(cfg.APIURL, cfg.APIToken, cfg.Timeout)

	return model{
		api:     api,
		current: screenMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.current == screenMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.current = screenClaims
				m.claimsView = view.NewClaimsModel(m.api)

				return m, m.claimsView.Init()
			case "2":
				m.current = screenInvoices
				m.invoicesView = view.NewInvoicesModel(m.api)

				return m, m.invoicesView.Init()
			case "3":
				m.current = screenExport
				m.exportView = view.NewExportModel(m.api)

				return m, m.exportView.Init()
			case "4":
				m.current = screenJobs
				m.jobsView = view.NewJobsModel(m.api)

				return m, m.jobsView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.current = screenMenu
		return m, nil
	}

	var cmd tea.Cmd

	switch m.current {
	case screenClaims:
		var next tea.Model
		next, cmd = m.claimsView.Update(msg)
		m.claimsView = next.(view.ClaimsModel)
	case screenInvoices:
		var next tea.Model
		next, cmd = m.invoicesView.Update(msg)
		m.invoicesView = next.(view.InvoicesModel)
	case screenExport:
		var next tea.Model
		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(view.ExportModel)
	case screenJobs:
		var next tea.Model
		next, cmd = m.jobsView.Update(msg)
		m.jobsView = next.(view.JobsModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.current {
	case screenMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Mandi Console\n\n" +
				"1. Claims\n" +
				"2. Invoices\n" +
				"3. Export Invoices\n" +
				"4. Render Jobs\n\n" +
				"q. Quit",
		)
	case screenClaims:
		current = m.claimsView
	case screenInvoices:
		current = m.invoicesView
	case screenExport:
		current = m.exportView
	case screenJobs:
		current = m.jobsView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("failed to run TUI: %v", err)
	}
}
