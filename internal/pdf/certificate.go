package pdf

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DamageCertificateData struct {
	CertificateDate         string
	InvoiceNumber           string
	InvoiceDate             string
	TruckNumber             string
	UserMobileNumber        string
	TransportReceiptMemoNo  string
	TransportReceiptDate    string
	LoadedWeightKg          decimal.Decimal
	ProductName             string
	FromParty               string
	ForParty                string
	AccidentDate            string
	AccidentLocation        string
	AccidentDescription     string
	AgreedAmount            *decimal.Decimal
	AgreedAmountWords       string
	AuthorizedSignatoryName string
}

func heading(title string, body Region) Box {
	return panel(Stack{Gap: 6, Children: []Region{
		Text{Content: title, Size: 11, Bold: true},
		body,
	}})
}

func certificateDocument(d DamageCertificateData, logo []byte) Document {
	header := []Region{
		Stack{Gap: 4, Children: []Region{
			Text{Content: "DAMAGE CERTIFICATE", Size: 16, Bold: true},
			Text{Content: "Certificate Date: " + dash(d.CertificateDate), Size: 11},
		}},
	}
	widths := []float64{0}

	if logo != nil {
		header = append(header, Image{Data: logo, Height: 40})
		widths = append(widths, 90)
	}

	sections := []Region{
		Columns{Children: header, Widths: widths, Gap: 10},
		Rule{},
		Columns{Stretch: true, Gap: 10, Children: []Region{
			heading("Invoice Details", labelled(10, false,
				"Invoice Number", dash(d.InvoiceNumber),
				"Invoice Date", dash(d.InvoiceDate),
				"Truck Number", dash(d.TruckNumber),
				"Mobile Number", dash(d.UserMobileNumber),
			)),
			heading("Transport Receipt", labelled(10, false,
				"Memo No", dash(d.TransportReceiptMemoNo),
				"Date", dash(d.TransportReceiptDate),
				"Loaded Weight (kg)", d.LoadedWeightKg.String(),
				"Product", dash(d.ProductName),
			)),
		}},
		heading("Consignment", labelled(10, false,
			"From", dash(d.FromParty),
			"For", dash(d.ForParty),
		)),
		heading("Accident Details", Stack{Gap: 4, Children: []Region{
			labelled(10, false,
				"Date", dash(d.AccidentDate),
				"Location", dash(d.AccidentLocation),
			),
			Text{Content: dash(d.AccidentDescription), Size: 10, LineGap: 2},
		}}),
	}

	if d.AgreedAmount != nil {
		sections = append(sections, heading("Agreed Damage", labelled(10, true,
			"Amount", "Rs."+d.AgreedAmount.StringFixed(2),
			"In Words", dash(d.AgreedAmountWords),
		)))
	}

	sections = append(sections,
		Text{
			Content: fmt.Sprintf("This is to certify that the consignment of %s carried in truck %s against invoice %s was damaged in the accident described above, and that the damage has been assessed and agreed between the parties named in this certificate.",
				dash(d.ProductName), dash(d.TruckNumber), dash(d.InvoiceNumber)),
			Size:    10,
			LineGap: 2,
		},
		Columns{Widths: []float64{0, 200}, Children: []Region{
			Spacer{},
			Stack{Gap: 4, Children: []Region{
				Spacer{Height: 40},
				Rule{},
				Text{Content: "Authorized Signatory", Size: 10, Align: AlignCenter},
				Text{Content: d.AuthorizedSignatoryName, Size: 10, Bold: true, Align: AlignCenter},
			}},
		}},
	)

	return Document{Gap: 15, Sections: sections}
}
