package schema

// PoemTranslationTable represents the 'poem_translations' table
type PoemTranslationTable struct {
	Table       string
	ID          string
	PoemID      string
	Translation string
	Source      string
	OrderIndex  string
}

// PoemTranslation is the schema definition for poem_translations
var PoemTranslation = PoemTranslationTable{
	Table:       "poem_translations",
	ID:          "id",
	PoemID:      "poem_id",
	Translation: "translation",
	Source:      "source",
	OrderIndex:  "order_index",
}
