package pdfextract

import (
	"github.com/ledongthuc/pdf"
)

// Page holds the extracted text of one PDF page. HasImages reports whether
// the page's resources declare XObjects; the bytes themselves are not pulled
// out, image extraction from PDFs is a different problem.
type Page struct {
	Number    int
	Text      string
	HasImages bool
}

// Info carries basic PDF document metadata.
type Info struct {
	Pages  int
	Title  string
	Author string
}

// ExtractPages extracts plain text page by page. Pages without extractable
// text are skipped; a page whose text extraction fails is skipped too rather
// than failing the whole document.
func ExtractPages(path string) ([]Page, Info, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, Info{}, err
	}
	defer f.Close()

	info := Info{Pages: reader.NumPage()}
	trailer := reader.Trailer().Key("Info")
	if !trailer.IsNull() {
		info.Title = trailer.Key("Title").Text()
		info.Author = trailer.Key("Author").Text()
	}

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		xobjects := page.V.Key("Resources").Key("XObject")
		pages = append(pages, Page{
			Number:    i,
			Text:      text,
			HasImages: !xobjects.IsNull(),
		})
	}
	return pages, info, nil
}
