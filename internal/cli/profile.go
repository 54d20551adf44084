package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile <ticket-id>",
	Short: "Show the validated candidate profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "print the profile as JSON")
}

func runProfile(cmd *cobra.Command, args []string) error {
	profile, err := svc.Profile(args[0])
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	if profileJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}

	fmt.Println(headingStyle.Render(profile.Contact.Name))
	if profile.Contact.Email != "" {
		fmt.Println(profile.Contact.Email)
	}
	if profile.Seniority != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("seniority"), profile.Seniority)
	}
	if profile.Summary != "" {
		fmt.Println()
		fmt.Println(profile.Summary)
	}
	if len(profile.Experiences) > 0 {
		fmt.Println()
		fmt.Println(headingStyle.Render("Experience"))
		for _, exp := range profile.Experiences {
			fmt.Printf("%s, %s\n", exp.Title, exp.Employer)
			for _, b := range exp.Bullets {
				fmt.Printf("  - %s\n", b.Text)
			}
		}
	}
	if names := profile.SkillNames(); len(names) > 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", headingStyle.Render("Skills"), strings.Join(names, ", "))
	}
	if len(profile.Unverified) > 0 {
		fmt.Println()
		fmt.Printf("%s %s\n", labelStyle.Render("unverified"),
			warnStyle.Render(strings.Join(profile.Unverified, ", ")))
	}
	return nil
}
