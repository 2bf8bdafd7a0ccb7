package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

func TestClient_Enqueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := queue.NewMockRepository(ctrl)

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := queue.NewClient(repo, 5)
	c.SetClock(func() time.Time { return now })

	repo.EXPECT().InsertJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, j *queue.Job) error {
			assert.Equal(t, "invoice-pdf", j.Queue)
			assert.Equal(t, "generate-pdf", j.Type)
			assert.JSONEq(t, `{"invoiceId":"abc"}`, string(j.Payload))
			assert.Equal(t, queue.StatusPending, j.Status)
			assert.Equal(t, 5, j.MaxAttempts)
			assert.Equal(t, now, j.RunAt)

			return nil
		})

	err := c.Enqueue(context.Background(), "invoice-pdf", "generate-pdf", map[string]string{"invoiceId": "abc"})
	require.NoError(t, err)
}

func TestClient_Enqueue_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := queue.NewMockRepository(ctrl)
	c := queue.NewClient(repo, 3)

	err := c.Enqueue(context.Background(), "q", "t", make(chan int))
	assert.ErrorContains(t, err, "encoding t payload")

	repo.EXPECT().InsertJob(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err = c.Enqueue(context.Background(), "q", "t", struct{}{})
	assert.EqualError(t, err, "enqueueing t on q: db down")
}

func TestClient_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := queue.NewMockRepository(ctrl)
	c := queue.NewClient(repo, 3)

	failed := queue.StatusFailed
	repo.EXPECT().ListJobs(gomock.Any(), queue.ListFilter{Status: &failed, Limit: 100}).Return(nil, nil)

	_, err := c.List(context.Background(), queue.ListFilter{Status: &failed})
	require.NoError(t, err)

	bogus := queue.Status("stuck")
	_, err = c.List(context.Background(), queue.ListFilter{Status: &bogus})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
