//go:build !integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCompaniesCSV(t *testing.T) {
	path := writeCSV(t, "name,website,type\nAcme Corp,https://acme.com,manufacturer\nBeta LLC,,\n")

	companies, err := loadCompaniesCSV(path)
	require.NoError(t, err)
	require.Len(t, companies, 2)

	assert.Equal(t, "Acme Corp", companies[0].Name)
	assert.Equal(t, "https://acme.com", companies[0].Website)
	assert.Equal(t, "manufacturer", companies[0].Type)
	assert.NotEmpty(t, companies[0].ID)

	assert.Equal(t, "Beta LLC", companies[1].Name)
	assert.Empty(t, companies[1].Website)
}

func TestLoadCompaniesCSV_SkipsBlankNames(t *testing.T) {
	path := writeCSV(t, "name,website\n,https://nameless.com\nGamma Inc,https://gamma.dev\n")

	companies, err := loadCompaniesCSV(path)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Gamma Inc", companies[0].Name)
}

func TestLoadCompaniesCSV_MissingNameColumn(t *testing.T) {
	path := writeCSV(t, "website\nhttps://acme.com\n")

	_, err := loadCompaniesCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name column")
}

func TestLoadCompaniesCSV_NoRows(t *testing.T) {
	path := writeCSV(t, "name,website\n")

	_, err := loadCompaniesCSV(path)
	require.Error(t, err)
}

func TestLoadCompaniesCSV_MissingFile(t *testing.T) {
	_, err := loadCompaniesCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
