package invoice_test

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
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
	"github.com/MrJamesThe3rd/mandi/internal/media"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
	"github.com/MrJamesThe3rd/mandi/internal/user"
)

type mocks struct {
	repo   *invoice.MockRepository
	tx     *invoice.MockWriteTx
	users  *invoice.MockUsers
	trucks *invoice.MockTrucks
	media  *media.MockStore
	jobs   *invoice.MockJobs
	sender *invoice.MockMessenger
}

func newService(t *testing.T) (*invoice.Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		repo:   invoice.NewMockRepository(ctrl),
		tx:     invoice.NewMockWriteTx(ctrl),
		users:  invoice.NewMockUsers(ctrl),
		trucks: invoice.NewMockTrucks(ctrl),
		media:  media.NewMockStore(ctrl),
		jobs:   invoice.NewMockJobs(ctrl),
		sender: invoice.NewMockMessenger(ctrl),
	}

	svc := invoice.NewService(m.repo, m.users, m.trucks, m.media, m.jobs, m.sender, zap.NewNop())
	svc.SetClock(func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) })

	return svc, m
}

func baseParams(userID uuid.UUID) invoice.CreateParams {
	return invoice.CreateParams{
		UserID:       userID,
		InvoiceDate:  "2024-03-01",
		SupplierName: "A",
		BillToName:   "B",
		ProductName:  []string{"Wheat"},
		Quantity:     decimal.NewFromInt(10),
		Rate:         decimal.NewFromInt(5),
		Amount:       decimal.NewFromInt(50),
	}
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()
	truckID := uuid.New()

	type testCase struct {
		name       string
		params     func() invoice.CreateParams
		slips      []media.File
		setupMock  func(m mocks)
		wantNumber string
		wantErr    error
	}

	tests := []testCase{
		{
			name:   "FirstInvoiceOfTheYear",
			params: func() invoice.CreateParams { return baseParams(userID) },
			setupMock: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID}, nil)
				m.repo.EXPECT().NextSequence(gomock.Any(), 2024).Return(1, nil)
				m.repo.EXPECT().BeginWrite(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						assert.Equal(t, invoice.DefaultTerms, inv.Terms)
						assert.Equal(t, invoice.TypeSupplier, inv.InvoiceType)
						assert.Nil(t, inv.PDFURL)

						return nil
					})
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
				m.jobs.EXPECT().Enqueue(gomock.Any(), invoice.QueuePDF, invoice.JobGeneratePDF, gomock.Any()).Return(nil)
			},
			wantNumber: "INV-2024-000001",
		},
		{
			name: "ClaimOnTruckWithSlips",
			params: func() invoice.CreateParams {
				p := baseParams(userID)
				p.TruckNumber = "mh12ab1234"
				p.IsClaim = true

				return p
			},
			slips: []media.File{{Name: "slip.jpg", Data: []byte{1}}},
			setupMock: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID}, nil)
				m.trucks.EXPECT().Resolve(gomock.Any(), "mh12ab1234").
					Return(&truck.Truck{ID: truckID, TruckNumber: "MH12AB1234"}, nil)
				m.media.EXPECT().UploadMultiple(gomock.Any(), gomock.Len(1), media.FolderWeighmentSlips).
					Return([]string{"https://cdn/slip.jpg"}, nil)
				m.repo.EXPECT().NextSequence(gomock.Any(), 2024).Return(7, nil)
				m.repo.EXPECT().BeginWrite(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						assert.Equal(t, &truckID, inv.TruckID)
						assert.Equal(t, []string{"https://cdn/slip.jpg"}, inv.WeighmentSlipURLs)
						inv.ID = uuid.New()

						return nil
					})
				m.tx.EXPECT().OpenClaim(gomock.Any(), gomock.Any()).Return(true, nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
				m.jobs.EXPECT().Enqueue(gomock.Any(), invoice.QueuePDF, invoice.JobGeneratePDF, gomock.Any()).Return(nil)
			},
			wantNumber: "INV-2024-000007",
		},
		{
			name:   "CollisionRetriedOnce",
			params: func() invoice.CreateParams { return baseParams(userID) },
			setupMock: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID}, nil)
				gomock.InOrder(
					m.repo.EXPECT().NextSequence(gomock.Any(), 2024).Return(3, nil),
					m.repo.EXPECT().NextSequence(gomock.Any(), 2024).Return(4, nil),
				)
				m.repo.EXPECT().BeginWrite(gomock.Any()).Return(m.tx, nil).Times(2)
				gomock.InOrder(
					m.tx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(invoice.ErrDuplicateNumber),
					m.tx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil),
				)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
				m.jobs.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantNumber: "INV-2024-000004",
		},
		{
			name:   "SecondCollisionIsConflict",
			params: func() invoice.CreateParams { return baseParams(userID) },
			setupMock: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID}, nil)
				m.repo.EXPECT().NextSequence(gomock.Any(), 2024).Return(3, nil).Times(2)
				m.repo.EXPECT().BeginWrite(gomock.Any()).Return(m.tx, nil).Times(2)
				m.tx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(invoice.ErrDuplicateNumber).Times(2)
				m.tx.EXPECT().Rollback().Return(nil).Times(2)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:   "UnknownUser",
			params: func() invoice.CreateParams { return baseParams(userID) },
			setupMock: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), userID).Return(nil, user.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "SeveralProducts",
			params: func() invoice.CreateParams {
				p := baseParams(userID)
				p.ProductName = []string{"Wheat", "Rice"}

				return p
			},
			setupMock: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID}, nil)
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name:   "EnqueueFailureDoesNotFailTheRequest",
			params: func() invoice.CreateParams { return baseParams(userID) },
			setupMock: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID}, nil)
				m.repo.EXPECT().NextSequence(gomock.Any(), 2024).Return(2, nil)
				m.repo.EXPECT().BeginWrite(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
				m.jobs.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("queue down"))
			},
			wantNumber: "INV-2024-000002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Create(context.Background(), tt.params(), tt.slips)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, got.InvoiceNumber)
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.InvoiceDate)
			assert.Nil(t, got.PDFURL)
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	stored := func() *invoice.Invoice {
		return &invoice.Invoice{
			ID:                id,
			InvoiceNumber:     "INV-2024-000010",
			InvoiceType:       invoice.TypeSupplier,
			ProductName:       "Wheat",
			WeighmentSlipURLs: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		}
	}

	t.Run("NumberIsImmutableAndSlipsAccumulate", func(t *testing.T) {
		svc, m := newService(t)

		number := "INV-1999-000001"
		supplier := "New Supplier"

		m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(stored(), nil)
		m.media.EXPECT().UploadMultiple(gomock.Any(), gomock.Len(1), media.FolderWeighmentSlips).
			Return([]string{"https://cdn/c.jpg"}, nil)
		m.repo.EXPECT().BeginWrite(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
		m.jobs.EXPECT().Enqueue(gomock.Any(), invoice.QueuePDF, invoice.JobGeneratePDF, invoice.PDFJob{InvoiceID: id}).Return(nil)

		got, err := svc.Update(context.Background(), id, invoice.UpdateParams{
			InvoiceNumber: &number,
			SupplierName:  &supplier,
		}, []media.File{{Name: "c.jpg", Data: []byte{1}}})
		require.NoError(t, err)

		assert.Equal(t, "INV-2024-000010", got.InvoiceNumber)
		assert.Equal(t, "New Supplier", got.SupplierName)
		assert.Equal(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg", "https://cdn/c.jpg"}, got.WeighmentSlipURLs)
	})

	t.Run("NewTruckAndClaimFlag", func(t *testing.T) {
		svc, m := newService(t)

		truckID := uuid.New()
		number := "KA01AA0001"
		claim := true

		m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(stored(), nil)
		m.trucks.EXPECT().Resolve(gomock.Any(), number).Return(&truck.Truck{ID: truckID, TruckNumber: number}, nil)
		m.repo.EXPECT().BeginWrite(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).Return(nil)
		m.tx.EXPECT().OpenClaim(gomock.Any(), id).Return(true, nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
		m.jobs.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Update(context.Background(), id, invoice.UpdateParams{TruckNumber: &number, IsClaim: &claim}, nil)
		require.NoError(t, err)
		assert.Equal(t, "KA01AA0001", got.TruckNumber)
		assert.True(t, got.IsClaim)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, m := newService(t)
		m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, invoice.ErrNotFound)

		_, err := svc.Update(context.Background(), id, invoice.UpdateParams{}, nil)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_ExportList(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	ids := []uuid.UUID{uuid.New()}

	type testCase struct {
		name    string
		filter  invoice.ExportFilter
		wantErr bool
	}

	tests := []testCase{
		{name: "NoCriteria", filter: invoice.ExportFilter{}, wantErr: true},
		{name: "StartOnly", filter: invoice.ExportFilter{StartDate: &start}, wantErr: true},
		{name: "DateRange", filter: invoice.ExportFilter{StartDate: &start, EndDate: &end}},
		{name: "ExplicitIDs", filter: invoice.ExportFilter{InvoiceIDs: ids}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			if !tt.wantErr {
				m.repo.EXPECT().ListInvoices(gomock.Any(), gomock.Any()).Return([]*invoice.Invoice{{ID: uuid.New()}}, nil)
			}

			got, err := svc.ExportList(context.Background(), tt.filter)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidInput)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestService_RequeuePDF(t *testing.T) {
	svc, m := newService(t)
	id := uuid.New()

	m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(&invoice.Invoice{ID: id}, nil)
	m.jobs.EXPECT().Enqueue(gomock.Any(), invoice.QueuePDF, invoice.JobGeneratePDF, invoice.PDFJob{InvoiceID: id}).Return(nil)

	require.NoError(t, svc.RequeuePDF(context.Background(), id))
}

func TestService_SendWhatsapp(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m mocks, inv *invoice.Invoice)
		wantErr   error
	}

	userID := uuid.New()
	pdfURL := "https://cdn.example.com/invoices/invoice-INV-2024-000001.pdf"

	tests := []testCase{
		{
			name: "SendsAndMarks",
			setupMock: func(m mocks, inv *invoice.Invoice) {
				m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID, MobileNumber: "9876543210"}, nil)
				m.sender.EXPECT().SendInvoice(gomock.Any(), invoice.Delivery{
					Phone:         "9876543210",
					SupplierName:  "Shree Traders",
					InvoiceNumber: "INV-2024-000001",
					PDFURL:        pdfURL,
				}).Return(nil)
				m.repo.EXPECT().MarkWhatsappSent(gomock.Any(), inv.ID).Return(nil)
			},
		},
		{
			name: "PDFNotReady",
			setupMock: func(m mocks, inv *invoice.Invoice) {
				inv.PDFURL = nil
				m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
			},
			wantErr: invoice.ErrPDFNotReady,
		},
		{
			name: "NoUser",
			setupMock: func(m mocks, inv *invoice.Invoice) {
				inv.UserID = nil
				m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "ProviderFailureLeavesUnsent",
			setupMock: func(m mocks, inv *invoice.Invoice) {
				m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
				m.users.EXPECT().Get(gomock.Any(), userID).Return(&user.User{ID: userID, MobileNumber: "9876543210"}, nil)
				m.sender.EXPECT().SendInvoice(gomock.Any(), gomock.Any()).Return(errors.New("chatrace down"))
			},
			wantErr: errors.New("chatrace down"),
		},
		{
			name: "MissingInvoice",
			setupMock: func(m mocks, inv *invoice.Invoice) {
				m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(nil, invoice.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			uid, url := userID, pdfURL
			inv := &invoice.Invoice{
				ID:            uuid.New(),
				InvoiceNumber: "INV-2024-000001",
				SupplierName:  "Shree Traders",
				UserID:        &uid,
				PDFURL:        &url,
			}
			tt.setupMock(m, inv)

			err := svc.SendWhatsapp(context.Background(), inv.ID)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)

			switch {
			case errors.Is(tt.wantErr, apperr.ErrNotFound), errors.Is(tt.wantErr, apperr.ErrInvalidInput), errors.Is(tt.wantErr, apperr.ErrConflict):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			}
		})
	}
}

func TestService_SendWhatsapp_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := invoice.NewService(invoice.NewMockRepository(ctrl), invoice.NewMockUsers(ctrl), invoice.NewMockTrucks(ctrl),
		media.NewMockStore(ctrl), invoice.NewMockJobs(ctrl), nil, zap.NewNop())

	err := svc.SendWhatsapp(context.Background(), uuid.New())

	assert.ErrorIs(t, err, invoice.ErrDeliveryDisabled)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}
