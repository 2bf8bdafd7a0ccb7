package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/cmd/tui/internal/client"
)

type InvoicesAPI interface {
	Invoices(ctx context.Context, start, end time.Time) ([]client.Invoice, error)
	RegeneratePDF(ctx context.Context, id uuid.UUID) error
	MarkWhatsappSent(ctx context.Context, id uuid.UUID) error
	SendWhatsapp(ctx context.Context, id uuid.UUID) error
}

type invoicesState int

const (
	invoicesStateTimeframe invoicesState = iota
	invoicesStateList
)

type InvoicesModel struct {
	CommonModel
	api InvoicesAPI

	state    invoicesState
	picker   TimeframePicker
	table    table.Model
	invoices []client.Invoice

	start, end time.Time

	loading bool
	status  string
}

func NewInvoicesModel(api InvoicesAPI) InvoicesModel {
	return InvoicesModel{
		api:    api,
		picker: NewTimeframePicker(TimeframeThisWeek, true),
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Number", Width: 16},
			{Title: "Truck", Width: 12},
			{Title: "Supplier", Width: 20},
			{Title: "Amount", Width: 14},
			{Title: "PDF", Width: 8},
			{Title: "WhatsApp", Width: 8},
			{Title: "Claim", Width: 6},
		}),
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state == invoicesStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "Esc: dates | g: regenerate PDF | s: send on WhatsApp | w: mark sent | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return nil
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.start, m.end = msg.Start, msg.End
		m.state = invoicesStateList
		m.loading = true
		m.status = ""

		return m, m.loadCmd()

	case loadInvoicesMsg:
		m.loading = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.invoices = msg.invoices
		m.refreshTable()

		if len(m.invoices) == 0 {
			m.status = "No invoices in this range."
		}

		return m, nil

	case invoiceActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.done

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == invoicesStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = invoicesStateTimeframe
			m.picker.Reset()

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "g":
			if inv, ok := m.selected(); ok {
				return m, m.actionCmd(inv, m.api.RegeneratePDF, "PDF regeneration queued for "+inv.InvoiceNumber)
			}
		case "s":
			if inv, ok := m.selected(); ok {
				return m, m.actionCmd(inv, m.api.SendWhatsapp, inv.InvoiceNumber+" sent on WhatsApp")
			}
		case "w":
			if inv, ok := m.selected(); ok {
				return m, m.actionCmd(inv, m.api.MarkWhatsappSent, inv.InvoiceNumber+" marked as sent on WhatsApp")
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) selected() (client.Invoice, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return client.Invoice{}, false
	}

	return m.invoices[idx], true
}

func (m InvoicesModel) View() string {
	if m.state == invoicesStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	rangeLabel := "All Time"
	if !m.start.IsZero() {
		rangeLabel = fmt.Sprintf("%s to %s", FormatDate(m.start), FormatDate(m.end))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Invoice dates: "+activeStyle(rangeLabel)),
		boxed(m.table.View()),
	)

	return lipgloss.NewStyle().Padding(1).Render(withStatus(m.status, content))
}

func pdfState(inv client.Invoice) string {
	if inv.PDFURL == nil || *inv.PDFURL == "" {
		return "pending"
	}

	return "ready"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))

	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.InvoiceDate,
			inv.InvoiceNumber,
			orDash(inv.TruckNumber),
			inv.SupplierName,
			FormatAmount(inv.Amount),
			pdfState(inv),
			yesNo(inv.WhatsappSent),
			yesNo(inv.IsClaim),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	invoices []client.Invoice
	err      error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	start, end := m.start, m.end

	return func() tea.Msg {
		ctx, cancel := requestCtx()
		defer cancel()

		invoices, err := m.api.Invoices(ctx, start, end)

		return loadInvoicesMsg{invoices: invoices, err: err}
	}
}

type invoiceActionMsg struct {
	done string
	err  error
}

func (m InvoicesModel) actionCmd(inv client.Invoice, action func(context.Context, uuid.UUID) error, done string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestCtx()
		defer cancel()

		return invoiceActionMsg{done: done, err: action(ctx, inv.ID)}
	}
}
