package scanner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DocumentMeta is a small summary of the rendered document attached to the
// audit report under the "document" key.
type DocumentMeta struct {
	Title            string `json:"title"`
	Lang             string `json:"lang"`
	Images           int    `json:"images"`
	ImagesMissingAlt int    `json:"images_missing_alt"`
}

// extractDocumentMeta parses the rendered HTML and pulls out the fields that
// give the report reviewer quick context: page title, declared language and
// how many images lack alt text.
func extractDocumentMeta(pageHTML string) (*DocumentMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	meta := &DocumentMeta{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if lang, ok := doc.Find("html").Attr("lang"); ok {
		meta.Lang = strings.TrimSpace(lang)
	}

	imgs := doc.Find("img")
	meta.Images = imgs.Length()
	imgs.Each(func(_ int, sel *goquery.Selection) {
		if alt, ok := sel.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			meta.ImagesMissingAlt++
		}
	})

	return meta, nil
}
