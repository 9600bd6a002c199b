package services

import (
	"bytes"
	"strings"

	"annualreports/internal/models"
	"annualreports/internal/utils"

	"github.com/PuerkitoBio/goquery"
)

const maxPageTitleLength = 120

var pdfSignature = []byte("%PDF")

// IsPDF sniffs the magic bytes every PDF document starts with.
func IsPDF(body []byte) bool {
	return bytes.HasPrefix(body, pdfSignature)
}

// DescribeNonPDF summarises a body the archive served in place of a document,
// usually an HTML error or redirect page.
func DescribeNonPDF(contentType string, body []byte) models.AttemptDetail {
	detail := models.AttemptDetail{
		ContentType: contentType,
		BodySize:    len(body),
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return detail
	}

	title := doc.Find("title").First().Text()
	if strings.TrimSpace(title) == "" {
		title = doc.Find("h1").First().Text()
	}
	detail.PageTitle = utils.StorableText(title, maxPageTitleLength)

	return detail
}
