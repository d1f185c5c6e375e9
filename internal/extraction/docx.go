package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// wordprocessingML is the main namespace of document.xml elements.
const wordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// DOCXSource reads text from Word documents. Paragraphs become lines and
// explicit page breaks start a new page.
type DOCXSource struct{}

// Name implements PageSource.
func (DOCXSource) Name() string { return "docx" }

// Pages implements PageSource.
func (DOCXSource) Pages(ctx context.Context, data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Source: "docx", Message: "not a zip archive", Cause: err}
	}
	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &ExtractionError{Source: "docx", Message: "failed to open " + docxBody, Cause: err}
		}
		defer rc.Close()
		pages, err := docxPages(ctx, rc)
		if err != nil {
			return nil, &ExtractionError{Source: "docx", Message: "failed to parse " + docxBody, Cause: err}
		}
		return pages, nil
	}
	return nil, &ExtractionError{Source: "docx", Message: "no " + docxBody + " in archive"}
}

func docxPages(ctx context.Context, r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var pages []string
	var page, para strings.Builder
	inText := false

	endParagraph := func() {
		if line := strings.TrimSpace(para.String()); line != "" {
			if page.Len() > 0 {
				page.WriteByte('\n')
			}
			page.WriteString(line)
		}
		para.Reset()
	}
	endPage := func() {
		endParagraph()
		pages = append(pages, page.String())
		page.Reset()
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocessingML {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br":
				if attr(t, "type") == "page" {
					endPage()
				} else {
					endParagraph()
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordprocessingML {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				endParagraph()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	endPage()
	return pages, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
