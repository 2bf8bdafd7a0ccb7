package claim_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/claim"
	"github.com/MrJamesThe3rd/mandi/internal/media"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

type mocks struct {
	repo  *claim.MockRepository
	tx    *claim.MockCreateTx
	media *media.MockStore
	jobs  *claim.MockJobs
}

func newService(t *testing.T) (*claim.Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		repo:  claim.NewMockRepository(ctrl),
		tx:    claim.NewMockCreateTx(ctrl),
		media: media.NewMockStore(ctrl),
		jobs:  claim.NewMockJobs(ctrl),
	}

	return claim.NewService(m.repo, m.media, m.jobs, zap.NewNop()), m
}

func ptr[T any](v T) *T { return &v }

func TestService_CreateByTruck(t *testing.T) {
	truckID := uuid.New()
	invoiceID := uuid.New()

	type testCase struct {
		name      string
		number    string
		setupMock func(m mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			number: "mh12 ab1234",
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginCreate(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockTruck(gomock.Any(), "MH12AB1234").Return(truckID, nil)
				m.tx.EXPECT().LatestInvoice(gomock.Any(), truckID).Return(invoiceID, nil)
				m.tx.EXPECT().ClaimExists(gomock.Any(), invoiceID).Return(false, nil)
				m.tx.EXPECT().OpenClaim(gomock.Any(), invoiceID).Return(true, nil)
				m.tx.EXPECT().CreateClaim(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *claim.Claim) error {
						assert.Equal(t, claim.StatusPending, c.Status)
						assert.Equal(t, invoiceID, c.InvoiceID)
						assert.Empty(t, c.SupportedMedia)
						c.ID = uuid.New()

						return nil
					})
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
				m.repo.EXPECT().GetClaim(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, id uuid.UUID) (*claim.Claim, error) {
						return &claim.Claim{ID: id, InvoiceID: invoiceID, Status: claim.StatusPending}, nil
					})
			},
		},
		{
			name:   "UnknownTruck",
			number: "MH12AB1234",
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginCreate(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockTruck(gomock.Any(), "MH12AB1234").Return(uuid.Nil, truck.ErrNotFound)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:   "TruckWithoutInvoices",
			number: "MH12AB1234",
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginCreate(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockTruck(gomock.Any(), "MH12AB1234").Return(truckID, nil)
				m.tx.EXPECT().LatestInvoice(gomock.Any(), truckID).Return(uuid.Nil, claim.ErrNoInvoice)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:   "LatestInvoiceAlreadyClaimed",
			number: "MH12AB1234",
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginCreate(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockTruck(gomock.Any(), "MH12AB1234").Return(truckID, nil)
				m.tx.EXPECT().LatestInvoice(gomock.Any(), truckID).Return(invoiceID, nil)
				m.tx.EXPECT().ClaimExists(gomock.Any(), invoiceID).Return(true, nil)
				// rolled back: the counter bump never becomes visible
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:   "LostInsertRace",
			number: "MH12AB1234",
			setupMock: func(m mocks) {
				m.repo.EXPECT().BeginCreate(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockTruck(gomock.Any(), "MH12AB1234").Return(truckID, nil)
				m.tx.EXPECT().LatestInvoice(gomock.Any(), truckID).Return(invoiceID, nil)
				m.tx.EXPECT().ClaimExists(gomock.Any(), invoiceID).Return(false, nil)
				m.tx.EXPECT().OpenClaim(gomock.Any(), invoiceID).Return(true, nil)
				m.tx.EXPECT().CreateClaim(gomock.Any(), gomock.Any()).Return(claim.ErrAlreadyClaimed)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:      "BlankNumber",
			number:    "  ",
			setupMock: func(m mocks) {},
			wantErr:   apperr.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.CreateByTruck(context.Background(), tt.number)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, claim.StatusPending, got.Status)
			assert.Equal(t, invoiceID, got.InvoiceID)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		update    claim.StatusUpdate
		setupMock func(m mocks)
		want      *claim.Claim
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "SurveyorAssigned",
			update: claim.StatusUpdate{Status: "SURVEYOR_ASSIGNED", SurveyorName: ptr("R. Mehta"), SurveyorContact: ptr("9876500000")},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id, Status: claim.StatusPending}, nil)
				m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: &claim.Claim{ID: id, Status: claim.StatusSurveyorAssigned, SurveyorName: "R. Mehta", SurveyorContact: "9876500000"},
		},
		{
			name:   "SurveyorAssignedWithoutContact",
			update: claim.StatusUpdate{Status: "SURVEYOR_ASSIGNED", SurveyorName: ptr("R. Mehta")},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id, Status: claim.StatusPending}, nil)
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name:   "SurveyorAssignedBlankName",
			update: claim.StatusUpdate{Status: "SURVEYOR_ASSIGNED", SurveyorName: ptr(" "), SurveyorContact: ptr("9876500000")},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id}, nil)
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name:   "AnyTransitionIsAllowed",
			update: claim.StatusUpdate{Status: "PENDING", Notes: ptr("reopened")},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id, Status: claim.StatusSettled}, nil)
				m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: &claim.Claim{ID: id, Status: claim.StatusPending, Notes: "reopened"},
		},
		{
			name:   "UnknownStatus",
			update: claim.StatusUpdate{Status: "LOST"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id}, nil)
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name:   "Missing",
			update: claim.StatusUpdate{Status: "IN_PROGRESS"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(nil, claim.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.UpdateStatus(context.Background(), id, tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.SurveyorName, got.SurveyorName)
			assert.Equal(t, tt.want.SurveyorContact, got.SurveyorContact)
			assert.Equal(t, tt.want.Notes, got.Notes)
		})
	}
}

func TestService_UploadSupportingMedia_AppendsInOrder(t *testing.T) {
	svc, m := newService(t)
	id := uuid.New()

	var stored []string

	m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id}, nil).Times(2)
	gomock.InOrder(
		m.media.EXPECT().UploadMultiple(gomock.Any(), gomock.Len(2), media.FolderClaimMedia).Return([]string{"a", "b"}, nil),
		m.media.EXPECT().UploadMultiple(gomock.Any(), gomock.Len(1), media.FolderClaimMedia).Return([]string{"c"}, nil),
	)
	m.repo.EXPECT().AppendMedia(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, urls []string) ([]string, error) {
			stored = append(stored, urls...)
			return stored, nil
		}).Times(2)

	img := func(name string) media.File {
		return media.File{Name: name, ContentType: "image/jpeg", Data: []byte{1}}
	}

	_, err := svc.UploadSupportingMedia(context.Background(), id, []media.File{img("a.jpg"), img("b.jpg")})
	require.NoError(t, err)

	got, err := svc.UploadSupportingMedia(context.Background(), id, []media.File{img("c.jpg")})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, got.SupportedMedia)
}

func TestService_UploadSupportingMedia_Rejects(t *testing.T) {
	id := uuid.New()

	tests := map[string][]media.File{
		"NoFiles":     nil,
		"TooMany":     make([]media.File, claim.MaxMediaFiles+1),
		"TooLarge":    {{Name: "big.jpg", ContentType: "image/jpeg", Data: make([]byte, claim.MaxMediaFileBytes+1)}},
		"WrongFormat": {{Name: "x.exe", ContentType: "application/x-msdownload", Data: []byte{1}}},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			svc, m := newService(t)
			m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id}, nil)

			_, err := svc.UploadSupportingMedia(context.Background(), id, files)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}

	t.Run("MissingClaim", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(nil, claim.ErrNotFound)

		_, err := svc.UploadSupportingMedia(context.Background(), id, nil)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_SubmitDamageForm(t *testing.T) {
	id := uuid.New()
	form := claim.DamageForm{
		DamageCertificateDate: "2024-04-02",
		LoadedWeightKg:        decimal.NewFromInt(25000),
		ProductName:           "Wheat",
		AccidentLocation:      "NH48 near Vapi",
	}

	t.Run("QueuesWithInvoiceSnapshot", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{
			ID: id,
			Invoice: &claim.Invoice{
				InvoiceNumber: "INV-2024-000003",
				InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				TruckNumber:   "MH12AB1234",
				UserMobile:    "9876543210",
			},
		}, nil)
		m.jobs.EXPECT().
			Enqueue(gomock.Any(), claim.QueueClaimForm, claim.JobDamageCertificate, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, payload any) error {
				job, ok := payload.(claim.DamageCertificateJob)
				require.True(t, ok)
				assert.Equal(t, id, job.ClaimRequestID)
				assert.Equal(t, "INV-2024-000003", job.InvoiceNumber)
				assert.Equal(t, "2024-03-01", job.InvoiceDate)
				assert.Equal(t, "MH12AB1234", job.TruckNumber)
				assert.Equal(t, "9876543210", job.UserMobileNumber)
				assert.Equal(t, "NH48 near Vapi", job.AccidentLocation)

				return nil
			})

		require.NoError(t, svc.SubmitDamageForm(context.Background(), id, form))
	})

	t.Run("NoLinkedInvoice", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id}, nil)

		assert.ErrorIs(t, svc.SubmitDamageForm(context.Background(), id, form), apperr.ErrInvalidInput)
	})

	t.Run("QueueDown", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.EXPECT().GetClaim(gomock.Any(), id).Return(&claim.Claim{ID: id, Invoice: &claim.Invoice{}}, nil)
		m.jobs.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("down"))

		assert.Error(t, svc.SubmitDamageForm(context.Background(), id, form))
	})
}

func TestService_FindByStatus(t *testing.T) {
	svc, m := newService(t)

	status := claim.StatusInProgress
	m.repo.EXPECT().ListClaims(gomock.Any(), claim.ListFilter{Status: &status}).Return([]*claim.Claim{{}}, nil)

	got, err := svc.FindByStatus(context.Background(), "IN_PROGRESS")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.FindByStatus(context.Background(), "in progress")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
