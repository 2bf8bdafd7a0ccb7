package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceData struct {
	InvoiceNumber     string
	InvoiceDate       time.Time
	Terms             string
	SupplierName      string
	SupplierAddress   []string
	PlaceOfSupply     string
	BillToName        string
	BillToAddress     []string
	ShipToName        string
	ShipToAddress     []string
	ProductName       string
	HSNCode           string
	Quantity          decimal.Decimal
	Rate              decimal.Decimal
	Amount            decimal.Decimal
	VehicleNumber     string
	WeighmentSlipNote string
}

type invoiceArt struct {
	logo  []byte
	slip  []byte
	stamp []byte
}

// cashWords match "cash" and the usual spellings of nakad/nagad in slip notes.
var cashWords = []string{"cash", "nak", "nag"}

func IsCashNote(note string) bool {
	note = strings.ToLower(strings.TrimSpace(note))

	for _, w := range cashWords {
		if strings.Contains(note, w) {
			return true
		}
	}

	return false
}

// InsuredParty names who is insured in transit: the buyer on cash deals, the supplier otherwise.
func InsuredParty(note, supplier, billTo string) string {
	if IsCashNote(note) {
		return billTo
	}

	return supplier
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}

	return s
}

func labelled(size float64, bold bool, pairs ...string) Region {
	var lines []string

	for i := 0; i+1 < len(pairs); i += 2 {
		lines = append(lines, fmt.Sprintf("%s : %s", pairs[i], pairs[i+1]))
	}

	return Text{Content: strings.Join(lines, "\n"), Size: size, Bold: bold, LineGap: 3}
}

func panel(child Region) Box {
	return Box{Child: child, Border: BorderSolid, Padding: 12}
}

func partyPanel(title, name string, address []string) Box {
	return panel(Stack{Gap: 3, Children: []Region{
		Text{Content: title, Size: 11},
		Text{Content: dash(name), Size: 11, Bold: true},
		Text{Content: joinLines(address), Size: 11, LineGap: 2},
	}})
}

func invoiceDocument(d InvoiceData, art invoiceArt) Document {
	payTerms := d.Terms
	if payTerms == "" {
		payTerms = "CUSTOM"
	}

	headerCols := []Region{
		Stack{Gap: 4, Children: []Region{
			Text{Content: "Supplier Name - " + d.SupplierName, Size: 14, Bold: true},
			Text{Content: "Place of Supply: " + dash(d.PlaceOfSupply), Size: 11},
		}},
	}
	headerWidths := []float64{0}

	if art.logo != nil {
		headerCols = append(headerCols, Image{Data: art.logo, Height: 35})
		headerWidths = append(headerWidths, 80)
	}

	headerCols = append(headerCols, Box{
		Child:   Text{Content: "INVOICE", Size: 17, Bold: true, Align: AlignCenter},
		Border:  BorderDashed,
		Padding: 9,
	})
	headerWidths = append(headerWidths, 100)

	rate := d.Rate.StringFixed(2)
	amount := d.Amount.StringFixed(2)
	insured := InsuredParty(d.WeighmentSlipNote, d.SupplierName, d.BillToName)

	notes := panel(Stack{Gap: 4, Children: []Region{
		Text{Content: "Notes", Size: 9, Bold: true},
		Text{Content: "VEHICLE NO : " + dash(d.VehicleNumber), Size: 9, Bold: true},
		Text{Content: "Per Nut Rate: Rs." + rate, Size: 9, Bold: true},
		Text{
			Content: fmt.Sprintf("This vehicle is transporting %s from Supplier: %s to Buyer: %s.", d.ProductName, d.SupplierName, d.BillToName),
			Size:    9,
			LineGap: 1,
		},
	}})

	terms := Box{Border: BorderSolid, Padding: 10, Child: Stack{Gap: 4, Children: []Region{
		Text{Content: "Insurance Terms", Size: 9, Bold: true},
		Text{
			Content: fmt.Sprintf("In case of any accident, loss, or damage during transit, %s shall be treated as the insured person and will be entitled to receive all claim amounts for the damaged goods.", insured),
			Size:    9,
			LineGap: 2,
		},
	}}}

	subTotal := Box{
		Border:  BorderSolid,
		Padding: 10,
		Child: Stack{Gap: 6, Children: []Region{
			Text{Content: "Sub Total", Size: 10, Bold: true},
			Text{Content: amount, Size: 12, Bold: true},
		}},
	}

	return Document{Gap: 15, Sections: []Region{
		Columns{Children: headerCols, Widths: headerWidths, Gap: 10},
		Rule{},
		Columns{Stretch: true, Widths: []float64{270, 0}, Gap: 10, Children: []Region{
			Box{Border: BorderSolid, Padding: 12, MinHeight: 70, Child: labelled(11, true,
				"Invoice Number", d.InvoiceNumber,
				"Invoice Date", d.InvoiceDate.Format("02/01/2006"),
				"Terms", payTerms,
			)},
			Box{Border: BorderSolid, Padding: 12, MinHeight: 70, Child: Stack{Gap: 3, Children: []Region{
				Text{Content: "Supplier Address", Size: 11, Bold: true},
				Text{Content: joinLines(d.SupplierAddress), Size: 11, LineGap: 2},
			}}},
		}},
		Columns{Stretch: true, Widths: []float64{270, 0}, Gap: 10, Children: []Region{
			partyPanel("Bill To", d.BillToName, d.BillToAddress),
			partyPanel("Ship To", d.ShipToName, d.ShipToAddress),
		}},
		Table{
			Size:    11,
			Padding: 5,
			Columns: []Column{
				{Title: "#", Share: 0.05},
				{Title: "Item & Description", Share: 0.41},
				{Title: "HSN/SAC", Share: 0.14},
				{Title: "Qty", Share: 0.12, Align: AlignRight},
				{Title: "Rate", Share: 0.13, Align: AlignRight},
				{Title: "Amount", Share: 0.15, Align: AlignRight},
			},
			Rows: [][]string{{"1", d.ProductName, dash(d.HSNCode), d.Quantity.String(), rate, amount}},
		},
		Columns{Widths: []float64{360, 0}, Gap: 10, Children: []Region{notes, subTotal}},
		terms,
		Columns{Widths: []float64{360, 0}, Gap: 40, Children: []Region{
			Stack{Gap: 5, Children: []Region{
				Text{Content: "Weighment Slip", Size: 9, Bold: true},
				Box{Border: BorderSolid, Padding: 10, Child: Image{Data: art.slip, Height: 220}},
			}},
			Stack{Gap: 10, Children: []Region{
				Text{Content: "Authorized Signature", Size: 9, Align: AlignCenter},
				Image{Data: art.stamp, Width: 80, Height: 80},
			}},
		}},
	}}
}
