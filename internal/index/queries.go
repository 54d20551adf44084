package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/tailorflow/tailorflow/internal/models"
)

// Searcher is the nearest-neighbor contract the grounding adapter
// consumes. Implemented by Client for production and by in-memory
// fakes in tests.
type Searcher interface {
	Search(ctx context.Context, kind models.SourceKind, vector []float32, keywords []string, k int) ([]models.Snippet, error)
}

// snippetRow is the wire shape of a snippet record.
type snippetRow struct {
	Text     string    `json:"text"`
	Kind     string    `json:"kind"`
	Score    float64   `json:"score"`
	Created  time.Time `json:"created"`
	Keywords []string  `json:"keywords"`
}

// AddSnippet stores a snippet under one logical index kind.
func (c *Client) AddSnippet(ctx context.Context, kind models.SourceKind, text string, keywords []string, embedding []float32) error {
	sql := `CREATE snippet SET kind = $kind, text = $text, keywords = $keywords, embedding = $embedding`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"kind":      string(kind),
		"text":      text,
		"keywords":  keywords,
		"embedding": embedding,
	})
	if err != nil {
		return fmt.Errorf("add snippet: %w", err)
	}
	return nil
}

// Search returns the k nearest snippets of one kind, scored by cosine
// similarity against the query vector. The context deadline is the
// index call deadline; exceeding it maps to models.ErrIndexTimeout.
func (c *Client) Search(ctx context.Context, kind models.SourceKind, vector []float32, keywords []string, k int) ([]models.Snippet, error) {
	sql := fmt.Sprintf(`
		SELECT text, kind, keywords, created,
		       vector::similarity::cosine(embedding, $vec) AS score
		FROM snippet
		WHERE kind = $kind AND embedding <|%d,40|> $vec
		ORDER BY score DESC
		LIMIT $k
	`, k*2)

	res, err := surrealdb.Query[[]snippetRow](ctx, c.db, sql, map[string]any{
		"kind": string(kind),
		"vec":  vector,
		"k":    k,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: kind %s", models.ErrIndexTimeout, kind)
		}
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}

	var snippets []models.Snippet
	if res != nil {
		for _, qr := range *res {
			for _, row := range qr.Result {
				snippets = append(snippets, models.Snippet{
					Text:       row.Text,
					SourceKind: models.SourceKind(row.Kind),
					Similarity: row.Score,
					CreatedAt:  row.Created,
				})
			}
		}
	}
	return snippets, nil
}
