package models

import (
	"fmt"
)

// CompanyRecord is one tracked company from the static catalog.
type CompanyRecord struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Country  string `json:"country"`
}

// DownloadTarget is a single (company, year) fetch, built fresh on every
// iteration of a sweep.
type DownloadTarget struct {
	Company  CompanyRecord `json:"company"`
	Year     int           `json:"year"`
	Slug     string        `json:"slug"`
	Filename string        `json:"filename"`
	URL      string        `json:"url"`
	SavePath string        `json:"savePath"`
}

func (t DownloadTarget) String() string {
	return fmt.Sprintf("%s/%d (%s)", t.Company.Name, t.Year, t.Filename)
}

// CacheKey identifies the remote document independent of where it is saved.
func (t DownloadTarget) CacheKey() string {
	return fmt.Sprintf("%s_%d", t.Slug, t.Year)
}
