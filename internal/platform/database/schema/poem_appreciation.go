package schema

// PoemAppreciationTable represents the 'poem_appreciations' table
type PoemAppreciationTable struct {
	Table        string
	ID           string
	PoemID       string
	Appreciation string
	OrderIndex   string
}

// PoemAppreciation is the schema definition for poem_appreciations
var PoemAppreciation = PoemAppreciationTable{
	Table:        "poem_appreciations",
	ID:           "id",
	PoemID:       "poem_id",
	Appreciation: "appreciation",
	OrderIndex:   "order_index",
}
