// Package poetry implements the classical-poetry catalog domain: entities,
// the repository contract, the query service, and the HTTP handlers.
package poetry

// Poem is the root entity representing one classical-poetry work.
//
// All scalar attributes are externally assigned strings, including the id
// and the update timestamp — this service never writes them. The child
// collections are always fully hydrated by the repository before a Poem
// leaves the storage layer.
type Poem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Dynasty    string `json:"dynasty"`
	Author     string `json:"author"`
	SourceLink string `json:"source_link"`
	Type       string `json:"type"`
	Format     string `json:"format"`
	UpdateAt   string `json:"update_at"`

	Contents      []ContentLine      `json:"contents"`
	Translations  []TranslationLine  `json:"translations"`
	Notes         []NoteLine         `json:"notes"`
	Appreciations []AppreciationLine `json:"appreciations"`
	Tags          []Tag              `json:"tags"`
}

// ContentLine is one ordered verse line of a poem.
type ContentLine struct {
	ID         int64  `json:"id"`
	PoemID     string `json:"poem_id"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
}

// TranslationLine is one ordered translation line, with its attribution.
type TranslationLine struct {
	ID          int64  `json:"id"`
	PoemID      string `json:"poem_id"`
	Translation string `json:"translation"`
	Source      string `json:"source"`
	OrderIndex  int    `json:"order_index"`
}

// NoteLine is one ordered annotation line.
type NoteLine struct {
	ID         int64  `json:"id"`
	PoemID     string `json:"poem_id"`
	Note       string `json:"note"`
	OrderIndex int    `json:"order_index"`
}

// AppreciationLine is one ordered appreciation (critical commentary) line.
type AppreciationLine struct {
	ID           int64  `json:"id"`
	PoemID       string `json:"poem_id"`
	Appreciation string `json:"appreciation"`
	OrderIndex   int    `json:"order_index"`
}

// Tag is a named label shared by many poems through the poem_tags
// association table.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Response is the externally-visible projection of a [Poem].
//
// Child lines collapse to their text payloads, ordered by each line's
// order index; tags collapse to their names.
type Response struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Dynasty    string `json:"dynasty"`
	Author     string `json:"author"`
	SourceLink string `json:"sourceLink"`
	Type       string `json:"type"`
	Format     string `json:"format"`
	UpdateAt   string `json:"updateAt"`

	Contents      []string              `json:"contents"`
	Translations  []TranslationResponse `json:"translations"`
	Tags          []string              `json:"tags"`
	Notes         []string              `json:"notes"`
	Appreciations []string              `json:"appreciations"`
}

// TranslationResponse is the (text, source) pair projected from a
// [TranslationLine].
type TranslationResponse struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Global field names for validation
const (
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldKeyword = "keyword"
)
