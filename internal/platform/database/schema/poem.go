package schema

// PoemTable represents the 'poems' table
type PoemTable struct {
	Table        string
	ID           string
	Title        string
	Dynasty      string
	Author       string
	SourceLink   string
	Type         string
	Format       string
	UpdateAt     string
	SearchVector string
}

// Poem is the schema definition for poems
var Poem = PoemTable{
	Table:        "poems",
	ID:           "id",
	Title:        "title",
	Dynasty:      "dynasty",
	Author:       "author",
	SourceLink:   "source_link",
	Type:         "type",
	Format:       "format",
	UpdateAt:     "update_at",
	SearchVector: "search_vector",
}

func (t PoemTable) Columns() []string {
	return []string{t.ID, t.Title, t.Dynasty, t.Author, t.SourceLink, t.Type, t.Format, t.UpdateAt}
}
