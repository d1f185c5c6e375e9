package rendering

import (
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/jonathan/resume-builder/internal/types"
)

// pdfEpoch is stamped as the creation date so equal documents encode to equal bytes.
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const pdfCreator = "resume-builder"

// WritePDF encodes the laid-out pages as PDF using the standard core fonts.
func WritePDF(w io.Writer, doc *Document) error {
	if doc == nil {
		return &RenderError{Message: "document is nil"}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: doc.PageWidth, Ht: doc.PageHeight},
	})
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	pdf.SetMargins(doc.Margin, doc.Margin, doc.Margin)
	pdf.SetAutoPageBreak(false, doc.Margin)
	pdf.SetCreator(pdfCreator, true)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title+" Resume", true)
		pdf.SetAuthor(doc.Title, true)
	}

	pages := doc.Pages
	if len(pages) == 0 {
		pages = []Page{{Number: 1}}
	}
	for _, page := range pages {
		pdf.AddPage()
		for _, it := range page.Items {
			switch it.Kind {
			case ItemText:
				pdf.SetFont(pdfFamily(it.Font.Family), pdfStyle(it.Font), it.Font.Size)
				pdf.SetTextColor(int(it.Color.R), int(it.Color.G), int(it.Color.B))
				pdf.Text(it.X, it.Y, encodeWinAnsi(it.Text))
				if it.Link != "" {
					pdf.LinkString(it.X, it.Y-0.8*it.Font.Size, it.Width, it.Font.Size, it.Link)
				}
			case ItemRule:
				pdf.SetDrawColor(int(it.Color.R), int(it.Color.G), int(it.Color.B))
				pdf.SetLineWidth(it.LineWidth)
				pdf.Line(it.X, it.Y, it.X+it.Width, it.Y)
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return nil
}

func pdfFamily(f types.FontFamily) string {
	switch f {
	case types.FontTimes:
		return "Times"
	case types.FontCourier:
		return "Courier"
	default:
		return "Helvetica"
	}
}

func pdfStyle(f Font) string {
	style := ""
	if f.Bold {
		style += "B"
	}
	if f.Italic {
		style += "I"
	}
	return style
}

// encodeWinAnsi converts UTF-8 to the single-byte encoding of the core fonts.
// Runes outside Windows-1252 become '?'.
func encodeWinAnsi(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('?')
	}
	return sb.String()
}
