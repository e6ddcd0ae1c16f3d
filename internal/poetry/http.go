package poetry

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/wceng/shiwen/internal/platform/request"
	"github.com/wceng/shiwen/internal/platform/respond"
	"github.com/wceng/shiwen/internal/platform/validate"
	"github.com/wceng/shiwen/pkg/pagination"
)

// maxQueryLen bounds free-text parameters (title, author, keyword) so a
// pathological query string cannot reach the database.
const maxQueryLen = 200

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the poetry router, mounted by the server under /api/poetry.
//
// Every endpoint is a public GET. Page/size bounds are enforced uniformly
// across all paged endpoints (the catalog treats inconsistent per-endpoint
// validation as an oversight, not a contract).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/random", handler.getRandomPoem)
	router.Get("/search/title", handler.searchByTitle)
	router.Get("/search/author", handler.searchByAuthor)
	router.Get("/fulltext", handler.fullTextSearch)
	router.Get("/dynasty/{dynasty}", handler.searchByDynasty)
	router.Get("/type/{type}", handler.searchByType)
	router.Get("/tag/{tagName}", handler.searchByTag)
	router.Get("/format/{format}", handler.searchByFormat)

	// Registered last so the static segments above win the match.
	router.Get("/{id}", handler.getPoemByID)

	return router
}

func (handler *Handler) getRandomPoem(writer http.ResponseWriter, request *http.Request) {
	response, err := handler.service.GetRandomPoem(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, response)
}

func (handler *Handler) getPoemByID(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	response, err := handler.service.GetPoemByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, response)
}

func (handler *Handler) searchByTitle(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Query(request, "title")

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, maxQueryLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.paged(writer, request, func(limit, offset int) ([]*Response, int, error) {
		return handler.service.SearchByTitle(request.Context(), title, limit, offset)
	})
}

func (handler *Handler) searchByAuthor(writer http.ResponseWriter, request *http.Request) {
	author := requestutil.Query(request, "author")

	validator := &validate.Validator{}
	validator.Required(FieldAuthor, author).MaxLen(FieldAuthor, author, maxQueryLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.paged(writer, request, func(limit, offset int) ([]*Response, int, error) {
		return handler.service.SearchByAuthor(request.Context(), author, limit, offset)
	})
}

func (handler *Handler) searchByDynasty(writer http.ResponseWriter, request *http.Request) {
	dynasty := requestutil.Param(request, "dynasty")

	handler.paged(writer, request, func(limit, offset int) ([]*Response, int, error) {
		return handler.service.SearchByDynasty(request.Context(), dynasty, limit, offset)
	})
}

func (handler *Handler) searchByType(writer http.ResponseWriter, request *http.Request) {
	poemType := requestutil.Param(request, "type")

	handler.paged(writer, request, func(limit, offset int) ([]*Response, int, error) {
		return handler.service.SearchByType(request.Context(), poemType, limit, offset)
	})
}

func (handler *Handler) searchByTag(writer http.ResponseWriter, request *http.Request) {
	tagName := requestutil.Param(request, "tagName")

	handler.paged(writer, request, func(limit, offset int) ([]*Response, int, error) {
		return handler.service.SearchByTag(request.Context(), tagName, limit, offset)
	})
}

func (handler *Handler) searchByFormat(writer http.ResponseWriter, request *http.Request) {
	format := requestutil.Param(request, "format")

	handler.paged(writer, request, func(limit, offset int) ([]*Response, int, error) {
		return handler.service.SearchByFormat(request.Context(), format, limit, offset)
	})
}

func (handler *Handler) fullTextSearch(writer http.ResponseWriter, request *http.Request) {
	keyword := requestutil.Query(request, "keyword")

	validator := &validate.Validator{}
	validator.Required(FieldKeyword, keyword).MaxLen(FieldKeyword, keyword, maxQueryLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.paged(writer, request, func(limit, offset int) ([]*Response, int, error) {
		return handler.service.FullTextSearch(request.Context(), keyword, limit, offset)
	})
}

// paged parses and validates the shared page/size parameters, runs the
// query, and writes the paginated envelope. An empty page is a success,
// never a 404.
func (handler *Handler) paged(writer http.ResponseWriter, request *http.Request, query func(limit, offset int) ([]*Response, int, error)) {
	params, err := pagination.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	responses, total, err := query(params.Size, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, responses, pagination.NewMeta(params.Page, params.Size, total))
}
