package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/mandi/internal/invoice"
)

const (
	sheetName = "Invoices"
	// numFmtAmount is excelize's built-in "#,##0.00".
	numFmtAmount = 4
)

var columns = []string{
	"Invoice Number",
	"Invoice Date",
	"Invoice Type",
	"Supplier Name",
	"Place of Supply",
	"Bill To",
	"Ship To",
	"Product",
	"HSN Code",
	"Quantity",
	"Rate",
	"Amount",
	"Premium Amount",
	"Truck Number",
	"Is Claim",
	"PDF URL",
	"Created At",
}

// amountColumns are the 1-based columns formatted as money.
var amountColumns = []int{10, 11, 12, 13}

func row(inv *invoice.Invoice) []any {
	pdfURL := ""
	if inv.PDFURL != nil {
		pdfURL = *inv.PDFURL
	}

	isClaim := "No"
	if inv.IsClaim {
		isClaim = "Yes"
	}

	return []any{
		inv.InvoiceNumber,
		inv.InvoiceDate.Format("2006-01-02"),
		string(inv.InvoiceType),
		inv.SupplierName,
		inv.PlaceOfSupply,
		inv.BillToName,
		inv.ShipToName,
		inv.ProductName,
		inv.HSNCode,
		inv.Quantity.InexactFloat64(),
		inv.Rate.InexactFloat64(),
		inv.Amount.InexactFloat64(),
		inv.PremiumAmount.InexactFloat64(),
		inv.Vehicle(),
		isClaim,
		pdfURL,
		inv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// InvoicesToExcel writes one row per invoice below a bold header row.
func InvoicesToExcel(invoices []*invoice.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, inv := range invoices {
		cells := row(inv)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("writing invoice %s: %w", inv.InvoiceNumber, err)
		}
	}

	if err := style(f, len(invoices)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func style(f *excelize.File, rows int) error {
	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetCellStyle(sheetName, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetColWidth(sheetName, "A", last, 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if rows == 0 {
		return nil
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for _, col := range amountColumns {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}

		if err := f.SetCellStyle(sheetName, name+"2", fmt.Sprintf("%s%d", name, rows+1), money); err != nil {
			return fmt.Errorf("styling %s: %w", name, err)
		}
	}

	return nil
}
