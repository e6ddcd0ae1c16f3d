package poetry

import "context"

// Repository declares the canonical catalog queries.
//
// Every list operation takes a limit/offset pair, returns fully hydrated
// poems in a stable id-ascending order (full-text search ranks by relevance
// first), and reports the total match count for page derivation. Absence of
// a single resource is dberr.ErrNotFound, never a nil-and-nil result.
type Repository interface {
	GetByID(context context.Context, id string) (*Poem, error)
	List(context context.Context, limit, offset int) ([]*Poem, int, error)
	SearchByTitle(context context.Context, title string, limit, offset int) ([]*Poem, int, error)
	SearchByAuthor(context context.Context, author string, limit, offset int) ([]*Poem, int, error)
	SearchByDynasty(context context.Context, dynasty string, limit, offset int) ([]*Poem, int, error)
	SearchByType(context context.Context, poemType string, limit, offset int) ([]*Poem, int, error)
	SearchByFormat(context context.Context, format string, limit, offset int) ([]*Poem, int, error)
	SearchByTag(context context.Context, tagName string, limit, offset int) ([]*Poem, int, error)
	FullTextSearch(context context.Context, keyword string, limit, offset int) ([]*Poem, int, error)
	CountAll(context context.Context) (int, error)
}
