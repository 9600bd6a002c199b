package constants

import "annualreports/internal/models"

// Companies returns the tracked company catalog in sweep order. A new slice is
// built on every call so callers can never mutate the shared table.
func Companies() []models.CompanyRecord {
	return []models.CompanyRecord{
		{Name: "Tesla", Ticker: "TSLA", Exchange: "NASDAQ", Country: "US"},
		{Name: "BMW", Ticker: "BMW.DE", Exchange: "Xetra", Country: "EU"},
		{Name: "Volkswagen", Ticker: "VOW3.DE", Exchange: "Xetra", Country: "EU"},
		{Name: "Benz", Ticker: "MBG.DE", Exchange: "Xetra", Country: "EU"},
		{Name: "Toyota", Ticker: "7203.T", Exchange: "Tokyo", Country: "JP"},
		{Name: "Stellantis", Ticker: "STLA", Exchange: "NYSE", Country: "EU"},
		{Name: "Bosch", Ticker: "BOS.IN", Exchange: "IN", Country: "IN"},
		{Name: "Apple", Ticker: "AAPL", Exchange: "NASDAQ", Country: "US"},
		{Name: "Microsoft", Ticker: "MSFT", Exchange: "NASDAQ", Country: "US"},
		{Name: "Intel", Ticker: "INTC", Exchange: "NASDAQ", Country: "US"},
		{Name: "Qualcomm", Ticker: "QCOM", Exchange: "NASDAQ", Country: "US"},
		{Name: "Nvdia", Ticker: "NVDA", Exchange: "NASDAQ", Country: "US"},
		{Name: "SAP", Ticker: "SAP", Exchange: "NYSE / Xetra", Country: "EU"},
		{Name: "IBM", Ticker: "IBM", Exchange: "NYSE", Country: "US"},
		{Name: "Jpmorgan", Ticker: "JPM", Exchange: "NYSE", Country: "US"},
		{Name: "Goldman", Ticker: "GS", Exchange: "NYSE", Country: "US"},
		{Name: "HSBC", Ticker: "HSBC", Exchange: "NYSE", Country: "EU"},
		{Name: "Blackrock", Ticker: "BLK", Exchange: "NYSE", Country: "US"},
		{Name: "Citigroup", Ticker: "C", Exchange: "NYSE", Country: "US"},
		{Name: "Pfizer", Ticker: "PFE", Exchange: "NYSE", Country: "US"},
		{Name: "J&J", Ticker: "JNJ", Exchange: "NYSE", Country: "US"},
		{Name: "Nestle", Ticker: "NESN.SW", Exchange: "Swiss", Country: "EU"},
		{Name: "Loreal", Ticker: "OR.PA", Exchange: "Paris", Country: "EU"},
		{Name: "Shiseido", Ticker: "4911.T", Exchange: "Tokyo", Country: "JP"},
		{Name: "P&G", Ticker: "PG", Exchange: "NYSE", Country: "US"},
	}
}

// SlugOverrides maps company names whose archive identifier does not follow
// the EXCHANGE_TICKER convention.
func SlugOverrides() map[string]string {
	return map[string]string{
		"BMW":        "OTC_BAMGF",
		"Volkswagen": "OTC_VWAGY",
		"Benz":       "OTC_MBGAF",
		"Nestle":     "OTC_NSRGY",
		"Toyota":     "NYSE_TM",
		"Loreal":     "Loreal_SA",
		"Shiseido":   "Shiseido_Company_Limited",
	}
}

// UnlistedCompanies are tracked but have no archive identifier at all.
func UnlistedCompanies() []string {
	return []string{"Bosch"}
}
