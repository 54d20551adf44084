package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var bundleJSON bool

var bundleCmd = &cobra.Command{
	Use:   "bundle <ticket-id>",
	Short: "Show the tailored output bundle with its evidence claims",
	Args:  cobra.ExactArgs(1),
	RunE:  runBundle,
}

func init() {
	bundleCmd.Flags().BoolVar(&bundleJSON, "json", false, "print the bundle as JSON")
}

func runBundle(cmd *cobra.Command, args []string) error {
	bundle, res, err := svc.Bundle(args[0])
	if err != nil {
		return fmt.Errorf("bundle: %w", err)
	}

	if bundleJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	}

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

	if res != nil {
		fmt.Println()
		fmt.Printf("%s %.0f%% keyword coverage\n",
			labelStyle.Render("compliance"), res.KeywordCoverage*100)
		if len(res.MissingKeywords) > 0 {
			fmt.Printf("%s %s\n", labelStyle.Render("missing"),
				strings.Join(res.MissingKeywords, ", "))
		}
		for _, s := range res.Suggestions {
			fmt.Printf("%s %s\n", labelStyle.Render("suggestion"), s)
		}
	}

	if verbose {
		fmt.Println()
		fmt.Println(headingStyle.Render("Claims"))
		for _, c := range bundle.Claims {
			mark := okStyle.Render("supported")
			if c.Suggestion {
				mark = warnStyle.Render("suggestion")
			} else if !c.Supported {
				mark = errStyle.Render("unsupported")
			}
			fmt.Printf("- [%s] %s (%s)\n", mark, c.Entity, c.EntityKind)
		}
	}
	return nil
}
