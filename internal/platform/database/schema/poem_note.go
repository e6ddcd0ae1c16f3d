package schema

// PoemNoteTable represents the 'poem_notes' table
type PoemNoteTable struct {
	Table      string
	ID         string
	PoemID     string
	Note       string
	OrderIndex string
}

// PoemNote is the schema definition for poem_notes
var PoemNote = PoemNoteTable{
	Table:      "poem_notes",
	ID:         "id",
	PoemID:     "poem_id",
	Note:       "note",
	OrderIndex: "order_index",
}
