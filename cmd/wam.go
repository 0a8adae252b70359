package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/cusip-cli/internal/model"
)

var wamCUSIP string

var wamCmd = &cobra.Command{
	Use:   "wam",
	Short: "Compute the weighted average maturity for a CUSIP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cusip := model.FormatCUSIP(wamCUSIP)
		if err := model.ValidateCUSIP(cusip); err != nil {
			return eris.Wrap(err, "invalid cusip")
		}

		p, err := newPipeline(cfg, "")
		if err != nil {
			return err
		}

		result := p.GetWAMOnly(cmd.Context(), cusip, nil)
		if result.Error != "" {
			return eris.Errorf("analysis failed: %s", result.Error)
		}

		printWAMSummary(result)
		return nil
	},
}

// printWAMSummary renders a human-readable WAM report with grouped digits.
func printWAMSummary(result model.AnalysisResult) {
	pr := message.NewPrinter(language.English)

	pr.Printf("CUSIP: %s\n", result.CUSIP)
	if result.WAMYears == nil {
		pr.Println("WAM: not available")
	} else {
		pr.Printf("WAM: %.2f years (%.1f months)\n", *result.WAMYears, *result.WAMMonths)
	}
	if result.TotalPrincipal != nil {
		pr.Printf("Total principal: $%.0f\n", *result.TotalPrincipal)
	}
	pr.Printf("Maturities: %d\n", result.MaturityCount)
	if len(result.Sources) > 0 {
		pr.Println("Sources:")
		for _, s := range result.Sources {
			fmt.Fprintf(os.Stdout, "  - %s\n", s)
		}
	}
}

func init() {
	wamCmd.Flags().StringVar(&wamCUSIP, "cusip", "", "CUSIP identifier (required)")
	_ = wamCmd.MarkFlagRequired("cusip")
	rootCmd.AddCommand(wamCmd)
}
