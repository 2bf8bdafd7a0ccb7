package pdf_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/pdf"
)

type stubImages struct {
	images map[string][]byte
	calls  []string
}

func (s *stubImages) Fetch(_ context.Context, url string) ([]byte, error) {
	s.calls = append(s.calls, url)

	data, ok := s.images[url]
	if !ok {
		return nil, errors.New("status 404")
	}

	return data, nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 40, 20))))

	return buf.Bytes()
}

func invoiceData() pdf.InvoiceData {
	return pdf.InvoiceData{
		InvoiceNumber:     "INV-001",
		InvoiceDate:       time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		SupplierName:      "Shree Traders",
		SupplierAddress:   []string{"Shed 4", "Unjha"},
		PlaceOfSupply:     "Gujarat",
		BillToName:        "Patel Oils",
		BillToAddress:     []string{"Rajkot"},
		ShipToName:        "Patel Oils",
		ShipToAddress:     []string{"Rajkot"},
		ProductName:       "Groundnut",
		HSNCode:           "1202",
		Quantity:          decimal.RequireFromString("100"),
		Rate:              decimal.RequireFromString("55.5"),
		Amount:            decimal.RequireFromString("5550"),
		VehicleNumber:     "GJ01AB1234",
		WeighmentSlipNote: "cash",
	}
}

func TestRenderer_RenderInvoice(t *testing.T) {
	images := &stubImages{images: map[string][]byte{
		"http://img/logo.png":  tinyPNG(t),
		"http://img/slip1.png": tinyPNG(t),
		"http://img/stamp.png": tinyPNG(t),
	}}

	r := pdf.NewRenderer(pdf.Config{LogoURL: "http://img/logo.png"}, images, zap.NewNop())

	out, err := r.RenderInvoice(context.Background(), invoiceData(), []string{"http://img/slip1.png", "http://img/slip2.png"}, "http://img/stamp.png")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, []string{"http://img/logo.png", "http://img/stamp.png", "http://img/slip1.png"}, images.calls)
}

func TestRenderer_RenderInvoiceWithoutImages(t *testing.T) {
	r := pdf.NewRenderer(pdf.Config{LogoURL: "http://img/missing.png"}, &stubImages{}, zap.NewNop())

	data := invoiceData()
	data.HSNCode = ""
	data.SupplierAddress = nil

	out, err := r.RenderInvoice(context.Background(), data, []string{"http://img/gone.png"}, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderer_RenderDamageCertificate(t *testing.T) {
	r := pdf.NewRenderer(pdf.Config{}, &stubImages{}, zap.NewNop())

	amount := decimal.RequireFromString("12500")

	out, err := r.RenderDamageCertificate(context.Background(), pdf.DamageCertificateData{
		CertificateDate:         "05/01/2025",
		InvoiceNumber:           "INV-001",
		InvoiceDate:             "02/01/2025",
		TruckNumber:             "GJ01AB1234",
		LoadedWeightKg:          decimal.RequireFromString("10000"),
		ProductName:             "Groundnut",
		FromParty:               "Shree Traders",
		ForParty:                "Patel Oils",
		AccidentDate:            "03/01/2025",
		AccidentLocation:        "NH 48 near Palanpur",
		AccidentDescription:     "Truck overturned after a tyre burst.",
		AgreedAmount:            &amount,
		AgreedAmountWords:       "Twelve thousand five hundred only",
		AuthorizedSignatoryName: "R. Patel",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderer_RenderDamageCertificateLongDescription(t *testing.T) {
	r := pdf.NewRenderer(pdf.Config{}, &stubImages{}, zap.NewNop())

	out, err := r.RenderDamageCertificate(context.Background(), pdf.DamageCertificateData{
		CertificateDate:     "05/01/2025",
		InvoiceNumber:       "INV-001",
		TruckNumber:         "GJ01AB1234",
		LoadedWeightKg:      decimal.RequireFromString("10000"),
		AccidentDescription: strings.Repeat("The truck skidded on the wet road and the load shifted. ", 140),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	pages := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
	assert.GreaterOrEqual(t, pages, 2)
}

func TestRenderer_RenderInvoiceLongAddresses(t *testing.T) {
	r := pdf.NewRenderer(pdf.Config{}, &stubImages{}, zap.NewNop())

	data := invoiceData()
	for i := range 80 {
		data.BillToAddress = append(data.BillToAddress, fmt.Sprintf("Godown %d, Market Yard", i+1))
	}

	out, err := r.RenderInvoice(context.Background(), data, nil, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestInsuredParty(t *testing.T) {
	tests := map[string]string{
		"cash":           "Buyer",
		"  NAKAD ":       "Buyer",
		"Nagad payment":  "Buyer",
		"credit 30 days": "Supplier",
		"":               "Supplier",
	}

	for note, want := range tests {
		assert.Equal(t, want, pdf.InsuredParty(note, "Supplier", "Buyer"), "note %q", note)
	}
}
