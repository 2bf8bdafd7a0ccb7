package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

type JobsAPI interface {
	Jobs(ctx context.Context, status string) ([]*queue.Job, error)
	RetryJob(ctx context.Context, id uuid.UUID) (*queue.Job, error)
}

// jobFilters is the cycle order for 's'; the empty status lists everything.
var jobFilters = []queue.Status{
	"",
	queue.StatusPending,
	queue.StatusRunning,
	queue.StatusDone,
	queue.StatusFailed,
}

type JobsModel struct {
	CommonModel
	api JobsAPI

	table  table.Model
	jobs   []*queue.Job
	filter int

	loading bool
	status  string
}

func NewJobsModel(api JobsAPI) JobsModel {
	return JobsModel{
		api:     api,
		loading: true,
		filter:  len(jobFilters) - 1,
		table: newTable([]table.Column{
			{Title: "Queue", Width: 16},
			{Title: "Type", Width: 20},
			{Title: "Status", Width: 9},
			{Title: "Attempts", Width: 9},
			{Title: "Run At", Width: 17},
			{Title: "Last Error", Width: 40},
		}),
	}
}

func (m JobsModel) Title() string { return "Render Jobs" }

func (m JobsModel) ShortHelp() string {
	return "Esc: back | s: status filter | t: retry | r: refresh"
}

func (m JobsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m JobsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadJobsMsg:
		m.loading = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.jobs = msg.jobs
		m.refreshTable()

		return m, nil

	case jobRetriedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Job %s requeued", msg.job.ID)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.filter = (m.filter + 1) % len(jobFilters)
			m.loading = true
			m.status = ""

			return m, m.loadCmd()
		case "t":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.jobs) {
				return m, nil
			}

			job := m.jobs[idx]
			if job.Status != queue.StatusFailed {
				m.status = "Only failed jobs can be retried"
				return m, nil
			}

			return m, m.retryCmd(job.ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m JobsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading jobs...")
	}

	filter := "all"
	if f := jobFilters[m.filter]; f != "" {
		filter = string(f)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Status: "+activeStyle(filter)),
		boxed(m.table.View()),
	)

	return lipgloss.NewStyle().Padding(1).Render(withStatus(m.status, content))
}

func (m *JobsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.jobs))

	for _, j := range m.jobs {
		rows = append(rows, table.Row{
			j.Queue,
			j.Type,
			string(j.Status),
			fmt.Sprintf("%d/%d", j.Attempts, j.MaxAttempts),
			j.RunAt.Local().Format("2006-01-02 15:04"),
			orDash(j.LastError),
		})
	}

	m.table.SetRows(rows)
}

type loadJobsMsg struct {
	jobs []*queue.Job
	err  error
}

func (m JobsModel) loadCmd() tea.Cmd {
	status := string(jobFilters[m.filter])

	return func() tea.Msg {
		ctx, cancel := requestCtx()
		defer cancel()

		jobs, err := m.api.Jobs(ctx, status)

		return loadJobsMsg{jobs: jobs, err: err}
	}
}

type jobRetriedMsg struct {
	job *queue.Job
	err error
}

func (m JobsModel) retryCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestCtx()
		defer cancel()

		job, err := m.api.RetryJob(ctx, id)

		return jobRetriedMsg{job: job, err: err}
	}
}
