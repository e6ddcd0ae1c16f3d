package schema

// PoemTagTable represents the 'poem_tags' association table.
// The (poem_id, tag_id) pair is the composite primary key, which keeps a
// poem from carrying the same tag twice.
type PoemTagTable struct {
	Table  string
	PoemID string
	TagID  string
}

// PoemTag is the schema definition for poem_tags
var PoemTag = PoemTagTable{
	Table:  "poem_tags",
	PoemID: "poem_id",
	TagID:  "tag_id",
}
