package receipt

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/lifelineclinics/booking-gateway/internal/clinic"
)

const (
	canvasWidth = 640
	marginX     = 40
	brandHex    = "#FBAE24"
	inkHex      = "#000000"
	mutedHex    = "#6b7280"
	ruleHex     = "#e5e7eb"
)

type rowKind int

const (
	rowTitle rowKind = iota
	rowSubtitle
	rowHeading
	rowKV
	rowAmount
	rowDivider
	rowSpacer
	rowStatus
	rowFooter
)

// row is one laid-out line of the receipt. KV rows render label left and
// value right-aligned; status rows get the status palette box.
type row struct {
	kind     rowKind
	label    string
	value    string
	valueHex string
	status   Status
}

func (k rowKind) height() float64 {
	switch k {
	case rowTitle:
		return 44
	case rowSubtitle:
		return 26
	case rowHeading:
		return 34
	case rowStatus:
		return 58
	case rowDivider:
		return 17
	case rowSpacer:
		return 10
	case rowFooter:
		return 20
	default:
		return 22
	}
}

// layout flattens the receipt into rows, mirroring the on-screen receipt
// section order: header, transaction, status, payment method, failure,
// contact, amounts, delivery, footer.
func (r *Receipt) layout() []row {
	rows := []row{
		{kind: rowTitle, label: r.ClinicName},
		{kind: rowSubtitle, label: "Payment Receipt"},
		{kind: rowSubtitle, label: "Receipt Number: " + r.Number()},
		{kind: rowDivider},
		{kind: rowKV, label: "Transaction ID", value: r.Payment.TransactionID},
		{kind: rowSpacer},
		{kind: rowStatus, status: r.Status()},
		{kind: rowDivider},
	}

	if r.Details != nil {
		rows = append(rows,
			row{kind: rowHeading, label: "Payment Method Details"},
			row{kind: rowKV, label: "Payment Method", value: CorrespondentName(r.Details.Correspondent)},
		)
		if r.Details.Payer != nil {
			rows = append(rows, row{kind: rowKV, label: "Payer Phone", value: r.Details.Payer.Address.Value})
		}
		rows = append(rows,
			row{kind: rowKV, label: "Currency", value: r.Details.Currency},
			row{kind: rowKV, label: "Country", value: r.Details.Country},
			row{kind: rowKV, label: "Payment Initiated", value: formatTimestamp(r.Details.Created)},
			row{kind: rowDivider},
		)
		if fr := r.Details.FailureReason; fr != nil {
			rows = append(rows,
				row{kind: rowHeading, label: "Failure Details"},
				row{kind: rowKV, label: "Failure Code", value: fr.FailureCode, valueHex: "#b91c1c"},
				row{kind: rowKV, label: "Failure Message", value: fr.FailureMessage, valueHex: "#b91c1c"},
				row{kind: rowDivider},
			)
		}
	}

	rows = append(rows,
		row{kind: rowHeading, label: "Contact Information"},
		row{kind: rowKV, label: "Phone Number", value: r.Payment.PhoneNumber},
		row{kind: rowKV, label: "Email", value: r.Payment.Email},
		row{kind: rowDivider},
		row{kind: rowHeading, label: "Amount Details"},
		row{kind: rowAmount, label: "Original Amount", value: formatAmount(r.Payment.Amount) + " " + r.CurrencySymbol},
	)

	if d := r.Payment.Discount; d != nil {
		rows = append(rows,
			row{kind: rowAmount, label: "Discount Code", value: d.Code, valueHex: "#1d4ed8"},
			row{kind: rowAmount, label: "Discount Percentage", value: fmt.Sprintf("%g%%", d.Percentage)},
			row{kind: rowAmount, label: "Discount Amount", value: "-" + formatAmount(d.DiscountAmount) + " " + r.CurrencySymbol, valueHex: "#dc2626"},
			row{kind: rowAmount, label: "Discount Expires", value: formatDate(d.ExpiresAt), valueHex: mutedHex},
		)
	}

	rows = append(rows,
		row{kind: rowAmount, label: "Final Amount", value: formatAmount(r.Payment.FinalAmount) + " " + r.CurrencySymbol, valueHex: brandHex},
		row{kind: rowDivider},
		row{kind: rowHeading, label: "Delivery Information"},
		row{kind: rowKV, label: "Delivery Method", value: clinic.DeliveryMethod(r.Payment.DeliveryMethod).String()},
	)

	if addr := r.Payment.DeliveryAddress; addr != nil {
		rows = append(rows,
			row{kind: rowKV, label: "Address", value: addr.Address},
			row{kind: rowKV, label: "City/District", value: addr.CityOrDistrict},
			row{kind: rowKV, label: "Phone", value: addr.PhoneNo},
		)
	}

	rows = append(rows,
		row{kind: rowDivider},
		row{kind: rowFooter, label: "Thank you for choosing " + r.ClinicName},
		row{kind: rowFooter, label: "This is an automated receipt. Please keep it for your records."},
	)
	return rows
}

// Render draws the receipt onto a white canvas and returns the image.
func (r *Receipt) Render() image.Image {
	rows := r.layout()

	height := 60.0
	for _, rw := range rows {
		height += rw.kind.height()
	}

	dc := gg.NewContext(canvasWidth, int(height))
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	y := 30.0
	rightX := float64(canvasWidth - marginX)
	for _, rw := range rows {
		h := rw.kind.height()
		switch rw.kind {
		case rowTitle:
			dc.SetHexColor(brandHex)
			dc.DrawStringAnchored(rw.label, canvasWidth/2, y+h/2, 0.5, 0.5)
		case rowSubtitle:
			dc.SetHexColor(mutedHex)
			dc.DrawStringAnchored(rw.label, canvasWidth/2, y+h/2, 0.5, 0.5)
		case rowHeading:
			dc.SetHexColor(brandHex)
			dc.DrawStringAnchored(rw.label, marginX, y+h/2, 0, 0.5)
		case rowKV, rowAmount:
			dc.SetHexColor(inkHex)
			dc.DrawStringAnchored(rw.label+":", marginX, y+h/2, 0, 0.5)
			if rw.valueHex != "" {
				dc.SetHexColor(rw.valueHex)
			}
			dc.DrawStringAnchored(rw.value, rightX, y+h/2, 1, 0.5)
		case rowStatus:
			style := rw.status.Style()
			dc.SetHexColor(style.FillHex)
			dc.DrawRoundedRectangle(marginX, y, rightX-marginX, h-8, 6)
			dc.Fill()
			dc.SetHexColor(style.BorderHex)
			dc.SetLineWidth(1)
			dc.DrawRoundedRectangle(marginX, y, rightX-marginX, h-8, 6)
			dc.Stroke()
			dc.SetHexColor(style.TextHex)
			dc.DrawStringAnchored(string(rw.status), marginX+16, y+(h-8)/2-8, 0, 0.5)
			dc.DrawStringAnchored(style.Label, marginX+16, y+(h-8)/2+8, 0, 0.5)
		case rowDivider:
			dc.SetHexColor(ruleHex)
			dc.SetLineWidth(1)
			dc.DrawLine(marginX, y+h/2, rightX, y+h/2)
			dc.Stroke()
		case rowFooter:
			dc.SetHexColor(mutedHex)
			dc.DrawStringAnchored(rw.label, canvasWidth/2, y+h/2, 0.5, 0.5)
		}
		y += h
	}

	return dc.Image()
}

// PNG renders the receipt and encodes it as a PNG.
func (r *Receipt) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Render()); err != nil {
		return nil, fmt.Errorf("receipt: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
