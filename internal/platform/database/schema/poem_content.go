package schema

// PoemContentTable represents the 'poem_contents' table
type PoemContentTable struct {
	Table        string
	ID           string
	PoemID       string
	Content      string
	OrderIndex   string
	SearchVector string
}

// PoemContent is the schema definition for poem_contents
var PoemContent = PoemContentTable{
	Table:        "poem_contents",
	ID:           "id",
	PoemID:       "poem_id",
	Content:      "content",
	OrderIndex:   "order_index",
	SearchVector: "search_vector",
}
