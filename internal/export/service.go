package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/invoice"
)

type Invoices interface {
	ExportList(ctx context.Context, filter invoice.ExportFilter) ([]*invoice.Invoice, error)
}

// Service exports invoices as a spreadsheet, alone or archived with their PDFs.
type Service struct {
	invoices Invoices
	client   *http.Client
	logger   *zap.Logger
}

func NewService(invoices Invoices, logger *zap.Logger) *Service {
	return &Service{
		invoices: invoices,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With(zap.String("component", "export")),
	}
}

func (s *Service) Spreadsheet(ctx context.Context, filter invoice.ExportFilter) ([]byte, error) {
	invoices, err := s.invoices.ExportList(ctx, filter)
	if err != nil {
		return nil, err
	}

	return InvoicesToExcel(invoices)
}

// Archive writes a zip holding invoices.xlsx, summary.txt and every generated invoice PDF.
// Invoices whose PDF has not been rendered yet are listed in the summary without a file.
func (s *Service) Archive(ctx context.Context, filter invoice.ExportFilter, w io.Writer) error {
	invoices, err := s.invoices.ExportList(ctx, filter)
	if err != nil {
		return err
	}

	sheet, err := InvoicesToExcel(invoices)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	if err := addFile(zw, "invoices.xlsx", sheet); err != nil {
		return err
	}

	files := make(map[string]string, len(invoices))
	used := make(map[string]bool, len(invoices))

	for _, inv := range invoices {
		if inv.PDFURL == nil || *inv.PDFURL == "" {
			continue
		}

		name, err := s.download(ctx, zw, inv, used)
		if err != nil {
			return fmt.Errorf("downloading pdf for invoice %s: %w", inv.InvoiceNumber, err)
		}

		files[inv.InvoiceNumber] = name
	}

	if err := addFile(zw, "summary.txt", []byte(Summary(invoices, files))); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	s.logger.Info("invoice archive exported", zap.Int("invoices", len(invoices)), zap.Int("pdfs", len(files)))

	return nil
}

func addFile(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}

	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

func (s *Service) download(ctx context.Context, zw *zip.Writer, inv *invoice.Invoice, used map[string]bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *inv.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, *inv.PDFURL)
	}

	name := determineFilename(resp, inv)
	for i := 2; used[name]; i++ {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), i, ext)
	}

	used[name] = true

	fw, err := zw.Create("pdfs/" + name)
	if err != nil {
		return "", fmt.Errorf("adding %s: %w", name, err)
	}

	if _, err := io.Copy(fw, resp.Body); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	return name, nil
}

func determineFilename(resp *http.Response, inv *invoice.Invoice) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	ext := ".pdf"

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/pdf") {
		if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
			ext = exts[0]
		}
	}

	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, inv.InvoiceNumber)

	// Format: YYYYMMDD_INV-2024-000001.pdf
	return fmt.Sprintf("%s_%s%s", inv.InvoiceDate.Format("20060102"), safe, ext)
}

// Summary lists the invoices one per line with the archived PDF name, if any.
func Summary(invoices []*invoice.Invoice, files map[string]string) string {
	var sb strings.Builder

	for _, inv := range invoices {
		file := "No PDF"
		if name, ok := files[inv.InvoiceNumber]; ok {
			file = name
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s -> %s | Rs.%s | %s\n",
			inv.InvoiceDate.Format("2006-01-02"),
			inv.InvoiceNumber,
			inv.Vehicle(),
			inv.SupplierName,
			inv.BillToName,
			inv.Amount.StringFixed(2),
			file)
	}

	return sb.String()
}
