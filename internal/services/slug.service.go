package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"annualreports/internal/constants"
	"annualreports/internal/models"
)

const archivePathFormat = "%s/HostedData/AnnualReportArchive/%s/%s"

var ErrNoPathLetter = errors.New("slug has no characters after prefix removal")

// exchangePrefixes are removed before taking the archive's first-letter folder.
var exchangePrefixes = strings.NewReplacer("NASDAQ_", "", "NYSE_", "", "OTC_", "")

// SlugResolver maps a company to the identifier the archive files it under.
// It holds no mutable state after construction.
type SlugResolver struct {
	overrides map[string]string
	unlisted  map[string]struct{}
}

func NewSlugResolver() *SlugResolver {
	return NewSlugResolverWith(constants.SlugOverrides(), constants.UnlistedCompanies())
}

func NewSlugResolverWith(overrides map[string]string, unlisted []string) *SlugResolver {
	resolver := &SlugResolver{
		overrides: make(map[string]string, len(overrides)),
		unlisted:  make(map[string]struct{}, len(unlisted)),
	}
	for name, slug := range overrides {
		resolver.overrides[name] = slug
	}
	for _, name := range unlisted {
		resolver.unlisted[name] = struct{}{}
	}
	return resolver
}

// Resolve returns the slug for a company, or false when the company cannot be
// fetched from the archive. Overrides win over everything else.
func (r *SlugResolver) Resolve(company models.CompanyRecord) (string, bool) {
	if slug, ok := r.overrides[company.Name]; ok {
		return slug, true
	}

	if _, ok := r.unlisted[company.Name]; ok {
		return "", false
	}

	switch {
	case strings.Contains(company.Exchange, "NYSE"):
		return "NYSE_" + company.Ticker, true
	case strings.Contains(company.Exchange, "NASDAQ"):
		return "NASDAQ_" + company.Ticker, true
	}

	return "", false
}

// PathLetter is the archive folder a slug's documents live under: the first
// character of the slug once exchange prefixes are removed, lowercased.
func PathLetter(slug string) (string, error) {
	clean := exchangePrefixes.Replace(slug)
	first, size := utf8.DecodeRuneInString(clean)
	if size == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoPathLetter, slug)
	}
	return string(unicode.ToLower(first)), nil
}

func ReportFilename(slug string, year int) string {
	return fmt.Sprintf("%s_%d.pdf", slug, year)
}

func ArchiveURL(baseURL, letter, filename string) string {
	return fmt.Sprintf(archivePathFormat, strings.TrimRight(baseURL, "/"), letter, filename)
}
