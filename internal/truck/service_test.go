package truck_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

func TestService_Resolve(t *testing.T) {
	type testCase struct {
		name      string
		number    string
		setupMock func(m *truck.MockRepository)
		want      *truck.Truck
		wantErr   error
	}

	known := &truck.Truck{ID: uuid.New(), TruckNumber: "MH12AB1234", OwnerName: "Sandeep", ClaimCount: 2}

	tests := []testCase{
		{
			name:   "KnownTruck",
			number: "mh 12 ab 1234",
			setupMock: func(m *truck.MockRepository) {
				m.EXPECT().GetTruckByNumber(gomock.Any(), "MH12AB1234").Return(known, nil)
			},
			want: known,
		},
		{
			name:   "UnknownTruckGetsPlaceholders",
			number: "GJ-01-XY-9",
			setupMock: func(m *truck.MockRepository) {
				m.EXPECT().GetTruckByNumber(gomock.Any(), "GJ01XY9").Return(nil, truck.ErrNotFound)
				m.EXPECT().
					EnsureTruck(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *truck.Truck) error {
						tr.ID = uuid.New()
						return nil
					})
			},
			want: &truck.Truck{
				TruckNumber:         "GJ01XY9",
				OwnerName:           truck.PlaceholderName,
				OwnerContactNumber:  truck.PlaceholderContact,
				DriverName:          truck.PlaceholderName,
				DriverContactNumber: truck.PlaceholderContact,
			},
		},
		{
			name:      "BlankNumber",
			number:    " - ",
			setupMock: func(m *truck.MockRepository) {},
			wantErr:   apperr.ErrInvalidInput,
		},
		{
			name:   "StoreFailure",
			number: "MH12AB1234",
			setupMock: func(m *truck.MockRepository) {
				m.EXPECT().GetTruckByNumber(gomock.Any(), "MH12AB1234").Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := truck.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := truck.NewService(repo).Resolve(context.Background(), tt.number)
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, apperr.ErrInvalidInput) {
					assert.ErrorIs(t, err, apperr.ErrInvalidInput)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.TruckNumber, got.TruckNumber)
			assert.Equal(t, tt.want.OwnerName, got.OwnerName)
			assert.Equal(t, tt.want.DriverContactNumber, got.DriverContactNumber)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "MH12AB1234", truck.NormalizeNumber(" mh-12 ab.1234 "))
	assert.Equal(t, "", truck.NormalizeNumber("--"))
}

func TestService_Import(t *testing.T) {
	type testCase struct {
		name      string
		rows      []truck.Contacts
		setupMock func(m *truck.MockRepository)
		want      *truck.ImportResult
		wantErr   error
	}

	tests := []testCase{
		{
			name: "NormalizesAndKeepsLastDuplicate",
			rows: []truck.Contacts{
				{TruckNumber: "mh 12 ab 1234", OwnerName: "Sandeep"},
				{TruckNumber: "GJ01XY9", DriverName: "Ravi"},
				{TruckNumber: "MH12AB1234", OwnerName: "Sandeep Patil"},
				{TruckNumber: " -- ", OwnerName: "Nobody"},
			},
			setupMock: func(m *truck.MockRepository) {
				m.EXPECT().UpsertContacts(gomock.Any(), []truck.Contacts{
					{TruckNumber: "MH12AB1234", OwnerName: "Sandeep Patil"},
					{TruckNumber: "GJ01XY9", DriverName: "Ravi"},
				}).Return(1, nil)
			},
			want: &truck.ImportResult{Created: 1, Updated: 1},
		},
		{
			name:      "NothingToImport",
			rows:      []truck.Contacts{{OwnerName: "No number"}},
			setupMock: func(m *truck.MockRepository) {},
			wantErr:   apperr.ErrInvalidInput,
		},
		{
			name: "StoreFailure",
			rows: []truck.Contacts{{TruckNumber: "MH12AB1234"}},
			setupMock: func(m *truck.MockRepository) {
				m.EXPECT().UpsertContacts(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := truck.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := truck.NewService(repo).Import(context.Background(), tt.rows)
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, apperr.ErrInvalidInput) {
					assert.ErrorIs(t, err, apperr.ErrInvalidInput)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
