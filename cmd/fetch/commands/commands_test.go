package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"annualreports/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCompanies(t *testing.T) {
	catalog := constants.Companies()

	all, err := selectCompanies(catalog, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(catalog))

	picked, err := selectCompanies(catalog, []string{"toyota", " Apple "})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	for _, company := range picked {
		assert.Contains(t, []string{"Apple", "Toyota"}, company.Name)
	}

	_, err = selectCompanies(catalog, []string{"Acme"})
	assert.ErrorContains(t, err, "acme")
}

func TestPlanCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	out := filepath.Join(t.TempDir(), "reports")
	t.Setenv("OUTPUT_DIR", out)
	t.Setenv("YEAR_START", "2020")
	t.Setenv("YEAR_END", "2021")

	var buf bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"plan", "--company", "Toyota", "--company", "Bosch"})

	require.NoError(t, root.Execute())

	output := buf.String()
	assert.Contains(t, output, "https://www.annualreports.com/HostedData/AnnualReportArchive/t/NYSE_TM_2020.pdf")
	assert.Contains(t, output, filepath.Join(out, "Toyota", "NYSE_TM_2021.pdf"))
	assert.Contains(t, output, "skipping Bosch: no archive slug")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(output), "2 targets, 1 companies skipped"))
}

func TestPlanCommand_OutputFlagWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OUTPUT_DIR", "from-env")
	t.Setenv("YEAR_START", "2020")
	t.Setenv("YEAR_END", "2020")

	var buf bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"plan", "-c", "Apple", "-o", "elsewhere"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), filepath.Join("elsewhere", "Apple", "NASDAQ_AAPL_2020.pdf"))
}

func TestRootCommand_RejectsUnknownCompany(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OUTPUT_DIR", t.TempDir())

	root := NewRootCommand()
	root.SetArgs([]string{"plan", "--company", "Acme"})
	assert.Error(t, root.Execute())
}
