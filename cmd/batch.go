package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/cusip-cli/internal/model"
	"github.com/sells-group/cusip-cli/internal/pipeline"
)

var (
	batchInput       string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze a list of CUSIPs from a spreadsheet or CSV",
	Long:  "Reads CUSIPs from the first column of an .xlsx or .csv file and analyzes them concurrently, emitting one JSON result per line. A failing CUSIP produces an error result and never aborts the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cusips, err := readCUSIPFile(batchInput)
		if err != nil {
			return err
		}
		if len(cusips) == 0 {
			return eris.Errorf("no CUSIPs found in %s", batchInput)
		}

		p, err := newPipeline(cfg, "")
		if err != nil {
			return err
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		zap.L().Info("starting batch analysis",
			zap.Int("cusips", len(cusips)),
			zap.Int("concurrency", concurrency),
		)

		var mu sync.Mutex
		enc := json.NewEncoder(os.Stdout)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)
		for _, cusip := range cusips {
			g.Go(func() error {
				result := analyzeOne(ctx, p, cusip)
				mu.Lock()
				defer mu.Unlock()
				return enc.Encode(result)
			})
		}
		return g.Wait()
	},
}

// analyzeOne validates and processes a single CUSIP; validation failures
// become error results so the batch keeps going.
func analyzeOne(ctx context.Context, p *pipeline.Pipeline, cusip string) model.AnalysisResult {
	c := model.FormatCUSIP(cusip)
	if err := model.ValidateCUSIP(c); err != nil {
		return model.ErrorResult(c, err.Error())
	}
	return p.Process(ctx, c, nil, nil)
}

// readCUSIPFile loads CUSIPs from the first column of an .xlsx or .csv file.
// A first row that does not look like a CUSIP is treated as a header.
func readCUSIPFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readCUSIPsXLSX(path)
	case ".csv":
		return readCUSIPsCSV(path)
	default:
		return nil, eris.Errorf("unsupported input file %q (want .xlsx or .csv)", path)
	}
}

func readCUSIPsXLSX(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("batch: xlsx file has no sheets")
	}

	var cusips []string
	for _, row := range f.Sheets[0].Rows {
		if len(row.Cells) == 0 {
			continue
		}
		cusips = appendCUSIP(cusips, row.Cells[0].String())
	}
	return cusips, nil
}

func readCUSIPsCSV(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open csv")
	}
	defer file.Close() //nolint:errcheck

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read csv")
	}

	var cusips []string
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		cusips = appendCUSIP(cusips, record[0])
	}
	return cusips, nil
}

// appendCUSIP adds a candidate value, skipping blanks and header-looking rows.
func appendCUSIP(cusips []string, raw string) []string {
	c := model.FormatCUSIP(raw)
	if c == "" || strings.EqualFold(c, "CUSIP") {
		return cusips
	}
	return append(cusips, c)
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "input file with CUSIPs in the first column (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent analyses (default from config)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
