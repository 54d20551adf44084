package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailorflow/tailorflow/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status <ticket-id>",
	Short: "Show the current stage and error log of a ticket",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ticket, err := svc.Status(args[0])
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	printTicket(ticket)

	if verbose {
		snap := svc.Metrics()
		fmt.Println()
		fmt.Println(headingStyle.Render("Pipeline metrics"))
		fmt.Printf("%s %d submitted, %d done, %d needs review, %d failed, %d rejected\n",
			labelStyle.Render("tickets"),
			snap.Submitted, snap.Done, snap.Review, snap.Failed, snap.Rejected)
		for stage, st := range snap.Stages {
			fmt.Printf("%s %d runs, %d retries, %d failures, %s total\n",
				labelStyle.Render(string(stage)),
				st.Runs, st.Retries, st.Failures, st.TotalTime)
		}
	}
	return nil
}

func printTicket(t models.WorkflowTicket) {
	fmt.Printf("%s %s\n", labelStyle.Render("ticket"), t.ID)
	fmt.Printf("%s %s\n", labelStyle.Render("stage"), renderStage(t.Stage))
	if t.JobID != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("job"), t.JobID)
	}
	if t.DegradedGrounding {
		fmt.Printf("%s %s\n", labelStyle.Render("grounding"), warnStyle.Render("degraded (partial index results)"))
	}
	if t.ReviewReason != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("review"), warnStyle.Render(t.ReviewReason))
	}
	if t.PreviousTicketID != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("supersedes"), t.PreviousTicketID)
	}
	for _, e := range t.Errors {
		fmt.Printf("%s [%s attempt %d] %s\n",
			labelStyle.Render("error"), e.Stage, e.Attempt, e.Reason)
	}
}
