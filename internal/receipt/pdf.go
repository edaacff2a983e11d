package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// A4 portrait in millimeters.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
)

// PDF renders the receipt raster and composes it into an A4 portrait PDF,
// slicing the image across as many pages as its height requires.
func (r *Receipt) PDF() ([]byte, error) {
	pngBytes, err := r.PNG()
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("receipt", opts, bytes.NewReader(pngBytes))
	if pdf.Err() {
		return nil, fmt.Errorf("receipt: register image: %w", pdf.Error())
	}

	imgWidth := pageWidthMM
	imgHeight := info.Height() * imgWidth / info.Width()

	// Same pagination the image-to-PDF flow has always used: draw the full
	// image on each page, shifted up by one page height each time.
	position := 0.0
	pdf.AddPage()
	pdf.ImageOptions("receipt", 0, position, imgWidth, imgHeight, false, opts, 0, "")
	heightLeft := imgHeight - pageHeightMM
	for heightLeft >= 0 {
		position = heightLeft - imgHeight
		pdf.AddPage()
		pdf.ImageOptions("receipt", 0, position, imgWidth, imgHeight, false, opts, 0, "")
		heightLeft -= pageHeightMM
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: compose pdf: %w", err)
	}
	return buf.Bytes(), nil
}
