package poetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wceng/shiwen/internal/platform/database/schema"
	"github.com/wceng/shiwen/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
//
// Hydration strategy: the poem page is fetched first, then each of the five
// child relations is loaded for the whole page in one batched ANY($1) query
// and distributed onto the parents. A page of N poems therefore costs a
// bounded six round trips, never N+1.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// poemColumns is the SELECT list shared by every poem query.
func poemColumns(alias string) string {
	columns := schema.Poem.Columns()
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Poem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE p.%s = $1`,
		poemColumns("p"), schema.Poem.Table, schema.Poem.ID,
	)

	poem := &Poem{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&poem.ID, &poem.Title, &poem.Dynasty, &poem.Author,
		&poem.SourceLink, &poem.Type, &poem.Format, &poem.UpdateAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_poem")
	}

	if err := repository.hydrate(context, []*Poem{poem}); err != nil {
		return nil, err
	}
	return poem, nil
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Poem, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s p ORDER BY p.%s ASC LIMIT $1 OFFSET $2`,
		poemColumns("p"), schema.Poem.Table, schema.Poem.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Poem.Table)

	return repository.queryPage(context, "list_poems", query, countQuery,
		[]any{limit, offset}, nil)
}

func (repository *PostgresRepository) SearchByTitle(context context.Context, title string, limit, offset int) ([]*Poem, int, error) {
	// ILIKE gives the case-insensitive substring semantic; ordering by id
	// keeps pagination deterministic across calls.
	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE p.%s ILIKE $1 ORDER BY p.%s ASC LIMIT $2 OFFSET $3`,
		poemColumns("p"), schema.Poem.Table, schema.Poem.Title, schema.Poem.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s ILIKE $1`,
		schema.Poem.Table, schema.Poem.Title,
	)
	pattern := "%" + title + "%"

	return repository.queryPage(context, "search_by_title", query, countQuery,
		[]any{pattern, limit, offset}, []any{pattern})
}

func (repository *PostgresRepository) SearchByAuthor(context context.Context, author string, limit, offset int) ([]*Poem, int, error) {
	return repository.searchByColumn(context, "search_by_author", schema.Poem.Author, author, limit, offset)
}

func (repository *PostgresRepository) SearchByDynasty(context context.Context, dynasty string, limit, offset int) ([]*Poem, int, error) {
	return repository.searchByColumn(context, "search_by_dynasty", schema.Poem.Dynasty, dynasty, limit, offset)
}

func (repository *PostgresRepository) SearchByType(context context.Context, poemType string, limit, offset int) ([]*Poem, int, error) {
	return repository.searchByColumn(context, "search_by_type", schema.Poem.Type, poemType, limit, offset)
}

func (repository *PostgresRepository) SearchByFormat(context context.Context, format string, limit, offset int) ([]*Poem, int, error) {
	return repository.searchByColumn(context, "search_by_format", schema.Poem.Format, format, limit, offset)
}

// searchByColumn serves the exact-match scalar filters (author, dynasty,
// type, format) that differ only in the filtered column.
func (repository *PostgresRepository) searchByColumn(context context.Context, action, column, value string, limit, offset int) ([]*Poem, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE p.%s = $1 ORDER BY p.%s ASC LIMIT $2 OFFSET $3`,
		poemColumns("p"), schema.Poem.Table, column, schema.Poem.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.Poem.Table, column,
	)

	return repository.queryPage(context, action, query, countQuery,
		[]any{value, limit, offset}, []any{value})
}

func (repository *PostgresRepository) SearchByTag(context context.Context, tagName string, limit, offset int) ([]*Poem, int, error) {
	// EXISTS over the association table keeps each poem distinct no matter
	// how many of its tags match.
	tagFilter := fmt.Sprintf(`EXISTS (
			SELECT 1 FROM %s pt
			JOIN %s t ON t.%s = pt.%s
			WHERE pt.%s = p.%s AND t.%s = $1
		)`,
		schema.PoemTag.Table, schema.Tag.Table, schema.Tag.ID, schema.PoemTag.TagID,
		schema.PoemTag.PoemID, schema.Poem.ID, schema.Tag.Name,
	)

	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE %s ORDER BY p.%s ASC LIMIT $2 OFFSET $3`,
		poemColumns("p"), schema.Poem.Table, tagFilter, schema.Poem.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s p WHERE %s`,
		schema.Poem.Table, tagFilter,
	)

	return repository.queryPage(context, "search_by_tag", query, countQuery,
		[]any{tagName, limit, offset}, []any{tagName})
}

func (repository *PostgresRepository) FullTextSearch(context context.Context, keyword string, limit, offset int) ([]*Poem, int, error) {
	// Token-based, case-insensitive matching against the generated tsvector
	// columns on poems (title+author) and poem_contents (verse text). This
	// is deliberately not a substring scan: websearch_to_tsquery tokenizes
	// the keyword with the same 'simple' config the indexed documents used.
	matchClause := fmt.Sprintf(`(p.%s @@ websearch_to_tsquery('simple', $1)
		OR EXISTS (
			SELECT 1 FROM %s pc
			WHERE pc.%s = p.%s AND pc.%s @@ websearch_to_tsquery('simple', $1)
		))`,
		schema.Poem.SearchVector,
		schema.PoemContent.Table,
		schema.PoemContent.PoemID, schema.Poem.ID, schema.PoemContent.SearchVector,
	)

	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE %s
		ORDER BY ts_rank(p.%s, websearch_to_tsquery('simple', $1)) DESC, p.%s ASC
		LIMIT $2 OFFSET $3`,
		poemColumns("p"), schema.Poem.Table, matchClause,
		schema.Poem.SearchVector, schema.Poem.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s p WHERE %s`,
		schema.Poem.Table, matchClause,
	)

	return repository.queryPage(context, "fulltext_search", query, countQuery,
		[]any{keyword, limit, offset}, []any{keyword})
}

func (repository *PostgresRepository) CountAll(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Poem.Table)

	var total int
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_poems")
	}
	return total, nil
}

// # Shared query plumbing

// queryPage runs the companion count query, fetches one page of poems, and
// hydrates their child relations. The count query runs even when the page
// itself is empty so out-of-range pages still report the true total.
func (repository *PostgresRepository) queryPage(context context.Context, action, query, countQuery string, args, countArgs []any) ([]*Poem, int, error) {
	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_"+action)
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	poems := make([]*Poem, 0)
	for rows.Next() {
		poem := &Poem{}
		if err := rows.Scan(
			&poem.ID, &poem.Title, &poem.Dynasty, &poem.Author,
			&poem.SourceLink, &poem.Type, &poem.Format, &poem.UpdateAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_"+action)
		}
		poems = append(poems, poem)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	rows.Close()

	if err := repository.hydrate(context, poems); err != nil {
		return nil, 0, err
	}
	return poems, total, nil
}

// hydrate loads all five child relations for the given poems with batched
// ANY($1) queries and distributes the rows onto their parents, ordered by
// order_index with the surrogate id as tiebreaker.
func (repository *PostgresRepository) hydrate(context context.Context, poems []*Poem) error {
	if len(poems) == 0 {
		return nil
	}

	ids := make([]string, 0, len(poems))
	byID := make(map[string]*Poem, len(poems))
	for _, poem := range poems {
		poem.Contents = make([]ContentLine, 0)
		poem.Translations = make([]TranslationLine, 0)
		poem.Notes = make([]NoteLine, 0)
		poem.Appreciations = make([]AppreciationLine, 0)
		poem.Tags = make([]Tag, 0)
		ids = append(ids, poem.ID)
		byID[poem.ID] = poem
	}

	if err := repository.hydrateContents(context, ids, byID); err != nil {
		return err
	}
	if err := repository.hydrateTranslations(context, ids, byID); err != nil {
		return err
	}
	if err := repository.hydrateNotes(context, ids, byID); err != nil {
		return err
	}
	if err := repository.hydrateAppreciations(context, ids, byID); err != nil {
		return err
	}
	return repository.hydrateTags(context, ids, byID)
}

func (repository *PostgresRepository) hydrateContents(context context.Context, ids []string, byID map[string]*Poem) error {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s, %s ASC, %s ASC`,
		schema.PoemContent.ID, schema.PoemContent.PoemID, schema.PoemContent.Content, schema.PoemContent.OrderIndex,
		schema.PoemContent.Table, schema.PoemContent.PoemID,
		schema.PoemContent.PoemID, schema.PoemContent.OrderIndex, schema.PoemContent.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "hydrate_contents")
	}
	defer rows.Close()

	for rows.Next() {
		line := ContentLine{}
		if err := rows.Scan(&line.ID, &line.PoemID, &line.Content, &line.OrderIndex); err != nil {
			return dberr.Wrap(err, "scan_content_line")
		}
		if poem, ok := byID[line.PoemID]; ok {
			poem.Contents = append(poem.Contents, line)
		}
	}
	return dberr.Wrap(rows.Err(), "hydrate_contents")
}

func (repository *PostgresRepository) hydrateTranslations(context context.Context, ids []string, byID map[string]*Poem) error {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s, %s ASC, %s ASC`,
		schema.PoemTranslation.ID, schema.PoemTranslation.PoemID, schema.PoemTranslation.Translation,
		schema.PoemTranslation.Source, schema.PoemTranslation.OrderIndex,
		schema.PoemTranslation.Table, schema.PoemTranslation.PoemID,
		schema.PoemTranslation.PoemID, schema.PoemTranslation.OrderIndex, schema.PoemTranslation.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "hydrate_translations")
	}
	defer rows.Close()

	for rows.Next() {
		line := TranslationLine{}
		if err := rows.Scan(&line.ID, &line.PoemID, &line.Translation, &line.Source, &line.OrderIndex); err != nil {
			return dberr.Wrap(err, "scan_translation_line")
		}
		if poem, ok := byID[line.PoemID]; ok {
			poem.Translations = append(poem.Translations, line)
		}
	}
	return dberr.Wrap(rows.Err(), "hydrate_translations")
}

func (repository *PostgresRepository) hydrateNotes(context context.Context, ids []string, byID map[string]*Poem) error {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s, %s ASC, %s ASC`,
		schema.PoemNote.ID, schema.PoemNote.PoemID, schema.PoemNote.Note, schema.PoemNote.OrderIndex,
		schema.PoemNote.Table, schema.PoemNote.PoemID,
		schema.PoemNote.PoemID, schema.PoemNote.OrderIndex, schema.PoemNote.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "hydrate_notes")
	}
	defer rows.Close()

	for rows.Next() {
		line := NoteLine{}
		if err := rows.Scan(&line.ID, &line.PoemID, &line.Note, &line.OrderIndex); err != nil {
			return dberr.Wrap(err, "scan_note_line")
		}
		if poem, ok := byID[line.PoemID]; ok {
			poem.Notes = append(poem.Notes, line)
		}
	}
	return dberr.Wrap(rows.Err(), "hydrate_notes")
}

func (repository *PostgresRepository) hydrateAppreciations(context context.Context, ids []string, byID map[string]*Poem) error {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s, %s ASC, %s ASC`,
		schema.PoemAppreciation.ID, schema.PoemAppreciation.PoemID, schema.PoemAppreciation.Appreciation, schema.PoemAppreciation.OrderIndex,
		schema.PoemAppreciation.Table, schema.PoemAppreciation.PoemID,
		schema.PoemAppreciation.PoemID, schema.PoemAppreciation.OrderIndex, schema.PoemAppreciation.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "hydrate_appreciations")
	}
	defer rows.Close()

	for rows.Next() {
		line := AppreciationLine{}
		if err := rows.Scan(&line.ID, &line.PoemID, &line.Appreciation, &line.OrderIndex); err != nil {
			return dberr.Wrap(err, "scan_appreciation_line")
		}
		if poem, ok := byID[line.PoemID]; ok {
			poem.Appreciations = append(poem.Appreciations, line)
		}
	}
	return dberr.Wrap(rows.Err(), "hydrate_appreciations")
}

func (repository *PostgresRepository) hydrateTags(context context.Context, ids []string, byID map[string]*Poem) error {
	query := fmt.Sprintf(`SELECT pt.%s, t.%s, t.%s FROM %s pt JOIN %s t ON t.%s = pt.%s WHERE pt.%s = ANY($1) ORDER BY pt.%s, t.%s ASC`,
		schema.PoemTag.PoemID, schema.Tag.ID, schema.Tag.Name,
		schema.PoemTag.Table, schema.Tag.Table, schema.Tag.ID, schema.PoemTag.TagID,
		schema.PoemTag.PoemID, schema.PoemTag.PoemID, schema.Tag.Name,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "hydrate_tags")
	}
	defer rows.Close()

	for rows.Next() {
		var poemID string
		tag := Tag{}
		if err := rows.Scan(&poemID, &tag.ID, &tag.Name); err != nil {
			return dberr.Wrap(err, "scan_poem_tag")
		}
		if poem, ok := byID[poemID]; ok {
			poem.Tags = append(poem.Tags, tag)
		}
	}
	return dberr.Wrap(rows.Err(), "hydrate_tags")
}
