package index

import "fmt"

// schemaSQL builds the snippet table schema. One table holds all three
// logical index kinds, discriminated by the kind field, so a deployment
// can still split them later without changing queries.
func schemaSQL(dimension int) string {
	return fmt.Sprintf(`
    DEFINE TABLE IF NOT EXISTS snippet SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS kind ON snippet TYPE string;
    DEFINE FIELD IF NOT EXISTS text ON snippet TYPE string;
    DEFINE FIELD IF NOT EXISTS keywords ON snippet TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS embedding ON snippet TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS created ON snippet TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS snippet_kind ON snippet FIELDS kind;
    DEFINE INDEX IF NOT EXISTS snippet_embedding ON snippet FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
    DEFINE ANALYZER IF NOT EXISTS snippet_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);
    DEFINE INDEX IF NOT EXISTS snippet_text_ft ON snippet FIELDS text FULLTEXT ANALYZER snippet_analyzer BM25;
`, dimension)
}
