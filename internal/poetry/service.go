package poetry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/wceng/shiwen/internal/platform/apperr"
	"github.com/wceng/shiwen/internal/platform/dberr"
)

// Service orchestrates repository calls and projects hydrated poems into
// their response shape. It holds no state beyond its dependencies and is
// safe for concurrent use.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetRandomPoem fetches one poem at a uniformly random offset.
//
// The draw is a page-of-size-1 request positioned at rand(0, total): one
// extra round trip instead of loading ids. It is uniform only because List
// orders by id ascending, which is stable between the count and the fetch;
// rows inserted in between can skew a single draw, which is accepted for
// this endpoint.
func (service *Service) GetRandomPoem(context context.Context) (*Response, error) {
	total, err := service.repo.CountAll(context)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, apperr.NotFound("Poem")
	}

	offset := rand.IntN(total)
	poems, _, err := service.repo.List(context, 1, offset)
	if err != nil {
		return nil, err
	}
	if len(poems) == 0 {
		// The draw raced a shrinking table; treat it as an empty store.
		return nil, apperr.NotFound("Poem")
	}

	return toResponse(poems[0]), nil
}

// GetPoemByID returns the projection of one poem, or NotFound.
func (service *Service) GetPoemByID(context context.Context, id string) (*Response, error) {
	poem, err := service.repo.GetByID(context, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			// Name the resource; the storage sentinel is generic.
			return nil, apperr.NotFound("Poem")
		}
		return nil, err
	}
	return toResponse(poem), nil
}

func (service *Service) SearchByTitle(context context.Context, title string, limit, offset int) ([]*Response, int, error) {
	poems, total, err := service.repo.SearchByTitle(context, title, limit, offset)
	return toResponses(poems), total, err
}

func (service *Service) SearchByAuthor(context context.Context, author string, limit, offset int) ([]*Response, int, error) {
	poems, total, err := service.repo.SearchByAuthor(context, author, limit, offset)
	return toResponses(poems), total, err
}

func (service *Service) SearchByDynasty(context context.Context, dynasty string, limit, offset int) ([]*Response, int, error) {
	poems, total, err := service.repo.SearchByDynasty(context, dynasty, limit, offset)
	return toResponses(poems), total, err
}

func (service *Service) SearchByType(context context.Context, poemType string, limit, offset int) ([]*Response, int, error) {
	poems, total, err := service.repo.SearchByType(context, poemType, limit, offset)
	return toResponses(poems), total, err
}

func (service *Service) SearchByFormat(context context.Context, format string, limit, offset int) ([]*Response, int, error) {
	poems, total, err := service.repo.SearchByFormat(context, format, limit, offset)
	return toResponses(poems), total, err
}

func (service *Service) SearchByTag(context context.Context, tagName string, limit, offset int) ([]*Response, int, error) {
	poems, total, err := service.repo.SearchByTag(context, tagName, limit, offset)
	return toResponses(poems), total, err
}

func (service *Service) FullTextSearch(context context.Context, keyword string, limit, offset int) ([]*Response, int, error) {
	poems, total, err := service.repo.FullTextSearch(context, keyword, limit, offset)
	return toResponses(poems), total, err
}

// # Projection

// toResponse reshapes a hydrated [Poem] into its response projection.
// Child collections arrive already ordered by order_index from the store;
// the projection preserves that order and is otherwise pure.
func toResponse(poem *Poem) *Response {
	contents := make([]string, 0, len(poem.Contents))
	for _, line := range poem.Contents {
		contents = append(contents, line.Content)
	}

	translations := make([]TranslationResponse, 0, len(poem.Translations))
	for _, line := range poem.Translations {
		translations = append(translations, TranslationResponse{
			Text:   line.Translation,
			Source: line.Source,
		})
	}

	tags := make([]string, 0, len(poem.Tags))
	for _, tag := range poem.Tags {
		tags = append(tags, tag.Name)
	}

	notes := make([]string, 0, len(poem.Notes))
	for _, line := range poem.Notes {
		notes = append(notes, line.Note)
	}

	appreciations := make([]string, 0, len(poem.Appreciations))
	for _, line := range poem.Appreciations {
		appreciations = append(appreciations, line.Appreciation)
	}

	return &Response{
		ID:            poem.ID,
		Title:         poem.Title,
		Dynasty:       poem.Dynasty,
		Author:        poem.Author,
		SourceLink:    poem.SourceLink,
		Type:          poem.Type,
		Format:        poem.Format,
		UpdateAt:      poem.UpdateAt,
		Contents:      contents,
		Translations:  translations,
		Tags:          tags,
		Notes:         notes,
		Appreciations: appreciations,
	}
}

// toResponses projects a whole page, tolerating a nil page from a failed
// repository call.
func toResponses(poems []*Poem) []*Response {
	responses := make([]*Response, 0, len(poems))
	for _, poem := range poems {
		responses = append(responses, toResponse(poem))
	}
	return responses
}
