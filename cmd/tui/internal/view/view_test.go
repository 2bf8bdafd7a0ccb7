package view

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange(t *testing.T) {
	// Thursday
	now := time.Date(2024, time.March, 14, 18, 30, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}{
		{name: "today", tf: TimeframeToday, wantStart: day(2024, time.March, 14), wantEnd: day(2024, time.March, 14)},
		{name: "week starts monday", tf: TimeframeThisWeek, wantStart: day(2024, time.March, 11), wantEnd: day(2024, time.March, 14)},
		{name: "this month", tf: TimeframeThisMonth, wantStart: day(2024, time.March, 1), wantEnd: day(2024, time.March, 14)},
		{name: "last month crosses leap day", tf: TimeframeLastMonth, wantStart: day(2024, time.February, 1), wantEnd: day(2024, time.February, 29)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := dateRange(tc.tf, now)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestDateRange_SundayBelongsToPreviousWeek(t *testing.T) {
	start, end := dateRange(TimeframeThisWeek, day(2024, time.March, 17))

	assert.Equal(t, day(2024, time.March, 11), start)
	assert.Equal(t, day(2024, time.March, 17), end)
}

func TestStatusUpdate(t *testing.T) {
	upd := statusUpdate("in_progress", "  R. Sharma ", "", "   ")

	assert.Equal(t, "in_progress", upd.Status)
	require.NotNil(t, upd.SurveyorName)
	assert.Equal(t, "R. Sharma", *upd.SurveyorName)
	assert.Nil(t, upd.SurveyorContact)
	assert.Nil(t, upd.Notes)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Rs.1250.50", FormatAmount(decimal.RequireFromString("1250.5")))
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestArchiveSummary(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"invoices.xlsx": "sheet",
		"summary.txt":   "Invoices: 3\nMissing PDFs: 1\n",
	})

	summary, err := archiveSummary(data)
	require.NoError(t, err)
	assert.Equal(t, "Invoices: 3\nMissing PDFs: 1\n", summary)
}

func TestArchiveSummary_Missing(t *testing.T) {
	_, err := archiveSummary(buildArchive(t, map[string]string{"invoices.xlsx": "sheet"}))
	assert.Error(t, err)

	_, err = archiveSummary([]byte("not a zip"))
	assert.Error(t, err)
}

func TestSaveArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	file, err := saveArchive(dir, day(2024, time.March, 1), day(2024, time.March, 31), []byte("zip"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoices-20240301-20240331.zip"), file)

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("zip"), got)
}

type fakeJobs struct {
	statuses []string
	jobs     []*queue.Job
	retried  []uuid.UUID
	retryErr error
}

func (f *fakeJobs) Jobs(_ context.Context, status string) ([]*queue.Job, error) {
	f.statuses = append(f.statuses, status)
	return f.jobs, nil
}

func (f *fakeJobs) RetryJob(_ context.Context, id uuid.UUID) (*queue.Job, error) {
	if f.retryErr != nil {
		return nil, f.retryErr
	}

	f.retried = append(f.retried, id)

	return &queue.Job{ID: id, Status: queue.StatusPending}, nil
}

func update(t *testing.T, m JobsModel, msg tea.Msg) (JobsModel, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	jm, ok := next.(JobsModel)
	require.True(t, ok)

	return jm, cmd
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestJobsModel_RetryFailedJob(t *testing.T) {
	failed := &queue.Job{ID: uuid.New(), Queue: "invoice-pdf", Status: queue.StatusFailed, Attempts: 5, MaxAttempts: 5}
	api := &fakeJobs{jobs: []*queue.Job{failed}}

	m := NewJobsModel(api)
	m, _ = update(t, m, m.Init()())
	assert.Equal(t, []string{"failed"}, api.statuses)

	m, cmd := update(t, m, key('t'))
	require.NotNil(t, cmd)

	m, reload := update(t, m, cmd())
	assert.Equal(t, []uuid.UUID{failed.ID}, api.retried)
	assert.Contains(t, m.status, "requeued")
	require.NotNil(t, reload)
}

func TestJobsModel_RetryRejectsNonFailed(t *testing.T) {
	api := &fakeJobs{jobs: []*queue.Job{{ID: uuid.New(), Status: queue.StatusDone}}}

	m := NewJobsModel(api)
	m, _ = update(t, m, m.Init()())

	m, cmd := update(t, m, key('t'))
	assert.Nil(t, cmd)
	assert.Empty(t, api.retried)
	assert.Equal(t, "Only failed jobs can be retried", m.status)
}

func TestJobsModel_RetryError(t *testing.T) {
	api := &fakeJobs{
		jobs:     []*queue.Job{{ID: uuid.New(), Status: queue.StatusFailed}},
		retryErr: errors.New("boom"),
	}

	m := NewJobsModel(api)
	m, _ = update(t, m, m.Init()())

	m, cmd := update(t, m, key('t'))
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, "Error: boom", m.status)
}

func TestJobsModel_StatusFilterCycles(t *testing.T) {
	api := &fakeJobs{}

	m := NewJobsModel(api)
	m, _ = update(t, m, m.Init()())

	for range jobFilters {
		var cmd tea.Cmd
		m, cmd = update(t, m, key('s'))
		m, _ = update(t, m, cmd())
	}

	assert.Equal(t, []string{"failed", "", "pending", "running", "done", "failed"}, api.statuses)
}
