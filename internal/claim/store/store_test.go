package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/mandi/internal/claim"
)

type result struct {
	rows int64
	err  error
}

func (r result) LastInsertId() (int64, error) { return 0, nil }

func (r result) RowsAffected() (int64, error) { return r.rows, r.err }

func TestRequireRow(t *testing.T) {
	boom := errors.New("driver does not report affected rows")

	assert.NoError(t, requireRow(result{rows: 1}))
	assert.ErrorIs(t, requireRow(result{}), claim.ErrNotFound)

	err := requireRow(result{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, claim.ErrNotFound)
}
