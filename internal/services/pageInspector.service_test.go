package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.4\n%âãÏÓ"), true},
		{"bare signature", []byte("%PDF"), true},
		{"html page", []byte("<!DOCTYPE html><html>"), false},
		{"leading whitespace", []byte(" %PDF-1.4"), false},
		{"lowercase", []byte("%pdf-1.4"), false},
		{"truncated signature", []byte("%PD"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPDF(tt.body))
		})
	}
}

func TestDescribeNonPDF(t *testing.T) {
	t.Run("extracts title", func(t *testing.T) {
		body := []byte("<html><head><title>\n  Annual Report   Not Available\n</title></head><body></body></html>")

		detail := DescribeNonPDF("text/html; charset=utf-8", body)

		assert.Equal(t, "Annual Report Not Available", detail.PageTitle)
		assert.Equal(t, "text/html; charset=utf-8", detail.ContentType)
		assert.Equal(t, len(body), detail.BodySize)
	})

	t.Run("falls back to first heading", func(t *testing.T) {
		detail := DescribeNonPDF("text/html", []byte("<body><h1>Access Denied</h1><h1>Other</h1></body>"))
		assert.Equal(t, "Access Denied", detail.PageTitle)
	})

	t.Run("plain text has no title", func(t *testing.T) {
		detail := DescribeNonPDF("text/plain", []byte("rate limited"))
		assert.Empty(t, detail.PageTitle)
		assert.Equal(t, 12, detail.BodySize)
	})

	t.Run("long titles are cut", func(t *testing.T) {
		body := []byte("<title>" + strings.Repeat("x", 500) + "</title>")
		detail := DescribeNonPDF("text/html", body)
		assert.Len(t, detail.PageTitle, maxPageTitleLength)
	})
}

func TestDescribeNonPDF_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("a", maxPageTitleLength-1) + "é tail"
	body := []byte("<html><head><title>" + long + "</title></head></html>")

	detail := DescribeNonPDF("text/html", body)
	assert.Equal(t, strings.Repeat("a", maxPageTitleLength-1), detail.PageTitle)
	assert.True(t, utf8.ValidString(detail.PageTitle))
}
