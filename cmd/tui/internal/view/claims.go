package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/cmd/tui/internal/client"
	"github.com/MrJamesThe3rd/mandi/internal/claim"
)

type ClaimsAPI interface {
	Claims(ctx context.Context, status, truckNumber string) ([]client.Claim, error)
	UpdateClaimStatus(ctx context.Context, id uuid.UUID, upd client.StatusUpdate) (*client.Claim, error)
}

type claimsState int

const (
	claimsStateBrowse claimsState = iota
	claimsStateSearch
	claimsStateEdit
)

type ClaimsModel struct {
	CommonModel
	api ClaimsAPI

	state  claimsState
	table  table.Model
	claims []client.Claim
	form   *huh.Form
	search textinput.Model

	// statusIdx 0 shows every status, otherwise claim.Statuses[statusIdx-1].
	statusIdx int
	truck     string

	loading bool
	err     error
	status  string

	// Form bindings
	formStatus   string
	formSurveyor string
	formContact  string
	formNotes    string
}

func NewClaimsModel(api ClaimsAPI) ClaimsModel {
	si := textinput.New()
	si.Placeholder = "MH12AB1234"
	si.Prompt = "Truck: "
	si.CharLimit = 20
	si.Width = 20

	return ClaimsModel{
		api: api,
		table: newTable([]table.Column{
			{Title: "Opened", Width: 12},
			{Title: "Status", Width: 18},
			{Title: "Truck", Width: 12},
			{Title: "Invoice", Width: 16},
			{Title: "Surveyor", Width: 18},
			{Title: "Media", Width: 6},
			{Title: "Form", Width: 6},
		}),
		search:  si,
		loading: true,
	}
}

func (m ClaimsModel) Title() string { return "Claims" }

func (m ClaimsModel) ShortHelp() string {
	switch m.state {
	case claimsStateSearch:
		return "Enter: search | Esc: cancel"
	case claimsStateEdit:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit status | s: status filter | /: search truck | r: refresh"
}

func (m ClaimsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ClaimsModel) statusFilter() string {
	if m.statusIdx == 0 {
		return ""
	}

	return string(claim.Statuses[m.statusIdx-1])
}

func (m ClaimsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadClaimsMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.claims = msg.claims
			m.refreshTable()
		}

		return m, nil

	case claimSavedMsg:
		m.state = claimsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Claim moved to %s.", msg.claim.Status)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case claimsStateSearch:
		return m.updateSearch(msg)
	case claimsStateEdit:
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m ClaimsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % (len(claim.Statuses) + 1)
			m.loading = true

			return m, m.loadCmd()
		case "/":
			m.state = claimsStateSearch
			m.search.SetValue(m.truck)
			m.table.Blur()

			return m, m.search.Focus()
		case "e":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ClaimsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = claimsStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			m.truck = strings.TrimSpace(m.search.Value())
			m.state = claimsStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m ClaimsModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.claims) {
		return m, nil
	}

	c := m.claims[idx]
	m.formStatus = c.Status
	m.formSurveyor = c.SurveyorName
	m.formContact = c.SurveyorContact
	m.formNotes = c.Notes

	options := make([]string, len(claim.Statuses))
	for i, st := range claim.Statuses {
		options[i] = string(st)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Status").
				Options(huh.NewOptions(options...)...).
				Value(&m.formStatus),

			huh.NewInput().
				Key("surveyor_name").
				Title("Surveyor Name").
				Value(&m.formSurveyor),

			huh.NewInput().
				Key("surveyor_contact").
				Title("Surveyor Contact").
				Placeholder("9876543210").
				Value(&m.formContact),

			huh.NewText().
				Key("notes").
				Title("Notes").
				Lines(3).
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = claimsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ClaimsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = claimsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

// statusUpdate sends only the fields the operator filled in so the server keeps the rest.
func statusUpdate(status, surveyor, contact, notes string) client.StatusUpdate {
	upd := client.StatusUpdate{Status: status}

	if s := strings.TrimSpace(surveyor); s != "" {
		upd.SurveyorName = &s
	}

	if s := strings.TrimSpace(contact); s != "" {
		upd.SurveyorContact = &s
	}

	if s := strings.TrimSpace(notes); s != "" {
		upd.Notes = &s
	}

	return upd
}

func (m ClaimsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading claims...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	statusLabel := "All"
	if s := m.statusFilter(); s != "" {
		statusLabel = s
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | [/] Truck: %s",
		activeStyle(statusLabel), activeStyle(orDash(m.truck)))

	if m.state == claimsStateSearch {
		header = m.search.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.state == claimsStateEdit && m.form != nil {
		c := m.claims[m.table.Cursor()]

		invoice := "-"
		if c.Invoice != nil {
			invoice = fmt.Sprintf("%s (%s)", c.Invoice.InvoiceNumber, c.Invoice.TruckNumber)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Update Claim\n\nInvoice: %s\n\n%s", invoice, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(withStatus(m.status, content))
}

func (m *ClaimsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.claims))

	for _, c := range m.claims {
		truck, number := "-", "-"
		if c.Invoice != nil {
			truck, number = orDash(c.Invoice.TruckNumber), c.Invoice.InvoiceNumber
		}

		form := "no"
		if c.ClaimFormURL != nil {
			form = "yes"
		}

		rows = append(rows, table.Row{
			FormatDate(c.CreatedAt),
			c.Status,
			truck,
			number,
			orDash(c.SurveyorName),
			fmt.Sprint(len(c.SupportedMedia)),
			form,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadClaimsMsg struct {
	claims []client.Claim
	err    error
}

func (m ClaimsModel) loadCmd() tea.Cmd {
	status, truck := m.statusFilter(), m.truck

	return func() tea.Msg {
		ctx, cancel := requestCtx()
		defer cancel()

		claims, err := m.api.Claims(ctx, status, truck)

		return loadClaimsMsg{claims: claims, err: err}
	}
}

type claimSavedMsg struct {
	claim *client.Claim
	err   error
}

func (m ClaimsModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.claims) {
		return nil
	}

	// Bound fields live on the model copy that built the form, so read values back by key.
	id := m.claims[idx].ID
	upd := statusUpdate(
		m.form.GetString("status"),
		m.form.GetString("surveyor_name"),
		m.form.GetString("surveyor_contact"),
		m.form.GetString("notes"),
	)

	return func() tea.Msg {
		ctx, cancel := requestCtx()
		defer cancel()

		c, err := m.api.UpdateClaimStatus(ctx, id, upd)

		return claimSavedMsg{claim: c, err: err}
	}
}
