package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailorflow/tailorflow/internal/models"
)

var seedKeywords []string

var seedCmd = &cobra.Command{
	Use:   "seed <kind> <file>",
	Short: "Seed a retrieval index with snippets",
	Long: `Seed one of the retrieval indices (job, ontology, template) with
snippets read from a file, one snippet per non-empty line.

Examples:
  tailorflow seed job postings.txt
  tailorflow seed ontology skills.txt --keywords go,kubernetes`,
	Args: cobra.ExactArgs(2),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringSliceVarP(&seedKeywords, "keywords", "k", nil, "keywords attached to every snippet")
}

func runSeed(cmd *cobra.Command, args []string) error {
	kind := models.SourceKind(args[0])
	valid := false
	for _, k := range models.SourceKinds {
		if k == kind {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown index kind %q", args[0])
	}

	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open snippet file: %w", err)
	}
	defer f.Close()

	ctx := context.Background()
	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embed snippet: %w", err)
		}
		if err := idxClient.AddSnippet(ctx, kind, text, seedKeywords, vec); err != nil {
			return fmt.Errorf("add snippet: %w", err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read snippet file: %w", err)
	}

	fmt.Printf("%s %d snippet(s) into %s index\n", okStyle.Render("seeded"), count, kind)
	return nil
}
