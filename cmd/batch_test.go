package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/cusip-cli/internal/pipeline"
	"github.com/sells-group/cusip-cli/internal/query"
)

func writeCSV(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cusips.csv")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestReadCUSIPFile_CSV(t *testing.T) {
	path := writeCSV(t, "CUSIP,Description\n912828z29,Treasury Note\n\n037833100,Apple Inc\n")

	cusips, err := readCUSIPFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"912828Z29", "037833100"}, cusips)
}

func TestReadCUSIPFile_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Holdings")
	require.NoError(t, err)
	for _, v := range []string{"CUSIP", "912828z29", "", "037833100"} {
		row := sheet.AddRow()
		row.AddCell().Value = v
	}
	path := filepath.Join(t.TempDir(), "cusips.xlsx")
	require.NoError(t, f.Save(path))

	cusips, err := readCUSIPFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"912828Z29", "037833100"}, cusips)
}

func TestReadCUSIPFile_UnsupportedExtension(t *testing.T) {
	_, err := readCUSIPFile("cusips.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input file")
}

func TestReadCUSIPFile_MissingFile(t *testing.T) {
	_, err := readCUSIPFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestAppendCUSIP(t *testing.T) {
	var cusips []string
	cusips = appendCUSIP(cusips, "cusip") // header
	cusips = appendCUSIP(cusips, "   ")
	cusips = appendCUSIP(cusips, " 912828z29 ")
	assert.Equal(t, []string{"912828Z29"}, cusips)
}

// cannedService serves a fixed reply for any CUSIP.
type cannedService struct {
	text string
}

func (s cannedService) Query(context.Context, string, []string, func(string)) (*query.Response, error) {
	return &query.Response{Text: s.text}, nil
}

func TestAnalyzeOne(t *testing.T) {
	p := pipeline.New(cannedService{text: `{"attributes": {"issuer": "US Treasury"}}`})

	result := analyzeOne(context.Background(), p, " 912828z29 ")
	assert.Empty(t, result.Error)
	assert.Equal(t, "US Treasury", result.Attributes["issuer"].Value)

	result = analyzeOne(context.Background(), p, "bad!")
	assert.NotEmpty(t, result.Error)
	assert.False(t, result.IsSuccess())
}
