package schema

// TagTable represents the 'tags' table
type TagTable struct {
	Table string
	ID    string
	Name  string
}

// Tag is the schema definition for tags
var Tag = TagTable{
	Table: "tags",
	ID:    "id",
	Name:  "name",
}
