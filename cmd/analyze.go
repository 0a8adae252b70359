package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cusip-cli/internal/model"
	"github.com/sells-group/cusip-cli/internal/pipeline"
)

var (
	analyzeCUSIP    string
	analyzeAttrs    []string
	analyzeTrace    bool
	analyzePatterns string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Look up financial attributes for a single CUSIP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cusip := model.FormatCUSIP(analyzeCUSIP)
		if err := model.ValidateCUSIP(cusip); err != nil {
			return eris.Wrap(err, "invalid cusip")
		}

		p, err := newPipeline(cfg, analyzePatterns)
		if err != nil {
			return err
		}

		var sink pipeline.TraceSink
		if analyzeTrace {
			sink = func(msg string) {
				fmt.Fprintln(os.Stderr, msg)
			}
		}

		result := p.Process(cmd.Context(), cusip, analyzeAttrs, sink)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCUSIP, "cusip", "", "CUSIP identifier (required)")
	analyzeCmd.Flags().StringSliceVar(&analyzeAttrs, "attr", nil, "attribute to request (repeatable; defaults to the standard set)")
	analyzeCmd.Flags().BoolVar(&analyzeTrace, "trace", false, "stream pipeline progress to stderr")
	analyzeCmd.Flags().StringVar(&analyzePatterns, "patterns", "", "YAML file overriding the text-fallback pattern table")
	_ = analyzeCmd.MarkFlagRequired("cusip")
	rootCmd.AddCommand(analyzeCmd)
}
