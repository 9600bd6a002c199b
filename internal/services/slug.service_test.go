package services

import (
	"errors"
	"strings"
	"testing"

	"annualreports/internal/constants"
	"annualreports/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugResolver_Catalog(t *testing.T) {
	resolver := NewSlugResolver()

	expected := map[string]string{
		"Tesla":      "NASDAQ_TSLA",
		"BMW":        "OTC_BAMGF",
		"Volkswagen": "OTC_VWAGY",
		"Benz":       "OTC_MBGAF",
		"Toyota":     "NYSE_TM",
		"Stellantis": "NYSE_STLA",
		"Apple":      "NASDAQ_AAPL",
		"Microsoft":  "NASDAQ_MSFT",
		"Intel":      "NASDAQ_INTC",
		"Qualcomm":   "NASDAQ_QCOM",
		"Nvdia":      "NASDAQ_NVDA",
		"SAP":        "NYSE_SAP",
		"IBM":        "NYSE_IBM",
		"Jpmorgan":   "NYSE_JPM",
		"Goldman":    "NYSE_GS",
		"HSBC":       "NYSE_HSBC",
		"Blackrock":  "NYSE_BLK",
		"Citigroup":  "NYSE_C",
		"Pfizer":     "NYSE_PFE",
		"J&J":        "NYSE_JNJ",
		"Nestle":     "OTC_NSRGY",
		"Loreal":     "Loreal_SA",
		"Shiseido":   "Shiseido_Company_Limited",
		"P&G":        "NYSE_PG",
	}

	for _, company := range constants.Companies() {
		t.Run(company.Name, func(t *testing.T) {
			slug, ok := resolver.Resolve(company)

			want, listed := expected[company.Name]
			assert.Equal(t, listed, ok)
			assert.Equal(t, want, slug)
		})
	}
}

func TestSlugResolver_Deterministic(t *testing.T) {
	resolver := NewSlugResolver()

	for _, company := range constants.Companies() {
		firstSlug, firstOK := resolver.Resolve(company)
		for range 5 {
			slug, ok := resolver.Resolve(company)
			assert.Equal(t, firstSlug, slug, company.Name)
			assert.Equal(t, firstOK, ok, company.Name)
		}
	}
}

func TestSlugResolver_OverridesIgnoreTickerAndExchange(t *testing.T) {
	resolver := NewSlugResolver()

	for name, override := range constants.SlugOverrides() {
		for _, exchange := range []string{"NYSE", "NASDAQ", "Tokyo", ""} {
			company := models.CompanyRecord{Name: name, Ticker: "ZZZ", Exchange: exchange}

			slug, ok := resolver.Resolve(company)
			require.True(t, ok, name)
			assert.Equal(t, override, slug, "%s on %q", name, exchange)
		}
	}
}

func TestSlugResolver_StandardRule(t *testing.T) {
	resolver := NewSlugResolverWith(nil, nil)

	tests := []struct {
		name     string
		exchange string
		ticker   string
		wantSlug string
		wantOK   bool
	}{
		{"plain NYSE", "NYSE", "IBM", "NYSE_IBM", true},
		{"plain NASDAQ", "NASDAQ", "AAPL", "NASDAQ_AAPL", true},
		{"dual listing prefers NYSE", "NYSE / Xetra", "SAP", "NYSE_SAP", true},
		{"NYSE wins over NASDAQ", "NASDAQ, NYSE", "XYZ", "NYSE_XYZ", true},
		{"other exchange", "Xetra", "BMW.DE", "", false},
		{"match is case sensitive", "nyse", "IBM", "", false},
		{"empty exchange", "", "IBM", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company := models.CompanyRecord{Name: tt.name, Ticker: tt.ticker, Exchange: tt.exchange}

			slug, ok := resolver.Resolve(company)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSlug, slug)
		})
	}
}

func TestSlugResolver_UnlistedBeatsStandardRule(t *testing.T) {
	resolver := NewSlugResolverWith(map[string]string{"Acme": "OTC_ACME"}, []string{"Hidden", "Acme"})

	_, ok := resolver.Resolve(models.CompanyRecord{Name: "Hidden", Ticker: "HID", Exchange: "NYSE"})
	assert.False(t, ok)

	slug, ok := resolver.Resolve(models.CompanyRecord{Name: "Acme", Ticker: "ACM", Exchange: "NYSE"})
	assert.True(t, ok, "override is checked before the unlisted set")
	assert.Equal(t, "OTC_ACME", slug)
}

func TestSlugResolver_FixtureIsCopied(t *testing.T) {
	overrides := map[string]string{"Acme": "OTC_ACME"}
	resolver := NewSlugResolverWith(overrides, nil)

	overrides["Acme"] = "changed"

	slug, _ := resolver.Resolve(models.CompanyRecord{Name: "Acme"})
	assert.Equal(t, "OTC_ACME", slug)
}

func TestPathLetter(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"NYSE_TM", "t"},
		{"NASDAQ_AAPL", "a"},
		{"OTC_BAMGF", "b"},
		{"NYSE_C", "c"},
		{"Loreal_SA", "l"},
		{"Shiseido_Company_Limited", "s"},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			letter, err := PathLetter(tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, letter)
		})
	}
}

func TestPathLetter_EmptyRemainder(t *testing.T) {
	for _, slug := range []string{"", "NYSE_", "OTC_NYSE_"} {
		_, err := PathLetter(slug)
		assert.True(t, errors.Is(err, ErrNoPathLetter), "slug %q", slug)
	}
}

func TestToyotaEndToEndNaming(t *testing.T) {
	resolver := NewSlugResolver()
	toyota := models.CompanyRecord{Name: "Toyota", Ticker: "7203.T", Exchange: "Tokyo", Country: "JP"}

	slug, ok := resolver.Resolve(toyota)
	require.True(t, ok)
	assert.Equal(t, "NYSE_TM", slug)

	filename := ReportFilename(slug, 2020)
	assert.Equal(t, "NYSE_TM_2020.pdf", filename)

	letter, err := PathLetter(slug)
	require.NoError(t, err)
	assert.Equal(t, "t", letter)

	url := ArchiveURL("https://www.annualreports.com/", letter, filename)
	assert.Equal(t, "https://www.annualreports.com/HostedData/AnnualReportArchive/t/NYSE_TM_2020.pdf", url)
	assert.False(t, strings.Contains(url, "//HostedData"))
}
