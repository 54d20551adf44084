package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/parser"
)

var (
	submitKind    string
	submitJobFile string
	submitWait    bool
	submitPrev    string
)

var submitCmd = &cobra.Command{
	Use:   "submit <resume-file>",
	Short: "Submit a resume for processing",
	Long: `Submit a resume document and run it through the pipeline.

The document kind is inferred from the file extension (.txt or .md)
unless --kind is given. An optional job requirement file (JSON) enables
job-targeted tailoring and match scoring.

Examples:
  tailorflow submit resume.md
  tailorflow submit resume.txt --job posting.json
  tailorflow submit resume.md --job posting.json --no-wait`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitKind, "kind", "", "document kind (txt or md, inferred from extension by default)")
	submitCmd.Flags().StringVar(&submitJobFile, "job", "", "job requirement file (JSON)")
	submitCmd.Flags().BoolVar(&submitWait, "wait", true, "wait for the ticket to settle")
	submitCmd.Flags().StringVar(&submitPrev, "resubmit", "", "previous ticket id this submission supersedes")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	kind := submitKind
	if kind == "" {
		kind = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if !validKind(kind) {
		return fmt.Errorf("kind %q: %w (supported: %s, %s)",
			kind, models.ErrUnsupportedFormat, parser.KindText, parser.KindMarkdown)
	}

	var job *models.JobRequirement
	if submitJobFile != "" {
		job, err = loadJob(submitJobFile)
		if err != nil {
			return err
		}
	}

	var id string
	if submitPrev != "" {
		id, err = svc.Resubmit(submitPrev, data, kind, job)
	} else {
		id, err = svc.Submit(data, kind, job)
	}
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	fmt.Printf("%s %s\n", labelStyle.Render("ticket"), id)
	if !submitWait {
		return nil
	}

	ticket, err := waitForTicket(id)
	if err != nil {
		return err
	}
	printTicket(ticket)

	if ticket.Stage == models.StageDone {
		printArtifacts(id, ticket)
	}
	return nil
}

// waitForTicket polls the ticket until it reaches a terminal stage.
func waitForTicket(id string) (models.WorkflowTicket, error) {
	for {
		ticket, err := svc.Status(id)
		if err != nil {
			return models.WorkflowTicket{}, err
		}
		if ticket.Stage.Terminal() {
			return ticket, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func printArtifacts(id string, ticket models.WorkflowTicket) {
	bundle, _, err := svc.Bundle(id)
	if err != nil {
		exitWithError("fetch bundle: %v", err)
	}
	fmt.Println()
	fmt.Println(headingStyle.Render("Summary"))
	fmt.Println(bundle.Summary)
	fmt.Println()
	fmt.Println(headingStyle.Render("Experience"))
	for _, b := range bundle.Bullets {
		fmt.Printf("- %s\n", b)
	}
	if bundle.SkillsLine != "" {
		fmt.Println()
		fmt.Println(headingStyle.Render("Skills"))
		fmt.Println(bundle.SkillsLine)
	}

	if ticket.JobID != "" {
		report, err := svc.MatchReport(id)
		if err == nil {
			fmt.Println()
			printReport(report)
		}
	}
}

func loadJob(path string) (*models.JobRequirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	var job models.JobRequirement
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}
	return &job, nil
}

// validKinds guards against typos before the parser rejects them with
// a less friendly error.
func validKind(kind string) bool {
	return kind == parser.KindText || kind == parser.KindMarkdown
}
