package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailorflow/tailorflow/internal/models"
)

var matchJSON bool

var matchCmd = &cobra.Command{
	Use:   "match <ticket-id>",
	Short: "Show the job match report with evidence-cited rationale",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "print the report as JSON")
}

func runMatch(cmd *cobra.Command, args []string) error {
	report, err := svc.MatchReport(args[0])
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	if matchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)
	return nil
}

func printReport(report *models.MatchReport) {
	fmt.Println(headingStyle.Render("Match report"))
	score := fmt.Sprintf("%.2f", report.Score)
	if report.Capped {
		score = errStyle.Render(score + " (capped: must-have missed)")
	}
	fmt.Printf("%s %s\n", labelStyle.Render("score"), score)

	for _, mh := range report.MustHaves {
		mark := okStyle.Render("pass")
		if !mh.Passed {
			mark = errStyle.Render("miss")
		}
		fmt.Printf("%s [%s] %s\n", labelStyle.Render("must-have"), mark, mh.Detail)
	}
	for criterion, sub := range report.SubScores {
		fmt.Printf("%s %s = %.2f\n", labelStyle.Render("criterion"), criterion, sub)
	}
	for _, r := range report.Rationale {
		fmt.Printf("%s %s: %s (%d span(s))\n",
			labelStyle.Render("rationale"), r.Criterion, r.Detail, len(r.SpanIDs))
	}
}
