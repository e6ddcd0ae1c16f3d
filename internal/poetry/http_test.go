package poetry_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wceng/shiwen/internal/poetry"
)

// newTestServer mounts the poetry routes the same way the real server does.
func newTestServer(t *testing.T, repo *fakeRepository) *httptest.Server {
	t.Helper()

	handler := poetry.NewHandler(poetry.NewService(repo, testLogger()))

	router := chi.NewRouter()
	router.Route("/api", func(api chi.Router) {
		api.Mount("/poetry", handler.Routes())
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// getJSON issues a GET and decodes the JSON body into out.
func getJSON(t *testing.T, server *httptest.Server, path string, out any) *http.Response {
	t.Helper()

	response, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer response.Body.Close()

	require.NoError(t, json.NewDecoder(response.Body).Decode(out))
	return response
}

type pagedBody struct {
	Data []json.RawMessage `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		Size       int `json:"size"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

func TestHandler_GetPoemByID(t *testing.T) {
	server := newTestServer(t, &fakeRepository{poems: []*poetry.Poem{fullPoem()}})

	var body map[string]any
	response := getJSON(t, server, "/api/poetry/jingyesi", &body)

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", response.Header.Get("Content-Type"))
	assert.Equal(t, "jingyesi", body["id"])
	assert.Equal(t, "静夜思", body["title"])

	// The projection uses camelCase for the two composite field names.
	assert.Contains(t, body, "sourceLink")
	assert.Contains(t, body, "updateAt")
	assert.NotContains(t, body, "source_link")
}

func TestHandler_GetPoemByID_NotFound(t *testing.T) {
	server := newTestServer(t, &fakeRepository{})

	var body map[string]any
	response := getJSON(t, server, "/api/poetry/no-such-id", &body)

	assert.Equal(t, http.StatusNotFound, response.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Poem not found", body["error"])
}

func TestHandler_GetRandomPoem_EmptyCatalog(t *testing.T) {
	server := newTestServer(t, &fakeRepository{})

	var body map[string]any
	response := getJSON(t, server, "/api/poetry/random", &body)

	assert.Equal(t, http.StatusNotFound, response.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestHandler_GetRandomPoem(t *testing.T) {
	server := newTestServer(t, &fakeRepository{poems: []*poetry.Poem{
		bare("a", "唐", "五言"),
		bare("b", "宋", "七言"),
	}})

	var body map[string]any
	response := getJSON(t, server, "/api/poetry/random", &body)

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, []any{"a", "b"}, body["id"])
}

func TestHandler_SearchByTitle_RequiresParam(t *testing.T) {
	server := newTestServer(t, &fakeRepository{})

	var body map[string]string
	response := getJSON(t, server, "/api/poetry/search/title", &body)

	// Validation failures are a flat field→message object.
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, map[string]string{"title": "This field is required"}, body)
}

func TestHandler_SearchByAuthor_RequiresParam(t *testing.T) {
	server := newTestServer(t, &fakeRepository{})

	var body map[string]string
	response := getJSON(t, server, "/api/poetry/search/author", &body)

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "This field is required", body["author"])
}

func TestHandler_FullTextSearch_RequiresKeyword(t *testing.T) {
	server := newTestServer(t, &fakeRepository{})

	var body map[string]string
	response := getJSON(t, server, "/api/poetry/fulltext", &body)

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "This field is required", body["keyword"])
}

func TestHandler_Pagination_Invalid(t *testing.T) {
	server := newTestServer(t, &fakeRepository{poems: []*poetry.Poem{bare("a", "唐", "五言")}})

	tests := []struct {
		name      string
		path      string
		wantField string
		wantMsg   string
	}{
		{
			name:      "negative_page",
			path:      "/api/poetry/dynasty/唐?page=-1",
			wantField: "page",
			wantMsg:   "Must be at least 0",
		},
		{
			name:      "zero_size",
			path:      "/api/poetry/dynasty/唐?size=0",
			wantField: "size",
			wantMsg:   "Must be between 1 and 100",
		},
		{
			name:      "oversized_page",
			path:      "/api/poetry/format/五言?size=101",
			wantField: "size",
			wantMsg:   "Must be between 1 and 100",
		},
		{
			name:      "non_numeric_page",
			path:      "/api/poetry/tag/思乡?page=abc",
			wantField: "page",
			wantMsg:   "Must be an integer",
		},
		{
			name:      "non_numeric_size",
			path:      "/api/poetry/search/title?title=月&size=ten",
			wantField: "size",
			wantMsg:   "Must be an integer",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var body map[string]string
			response := getJSON(t, server, testCase.path, &body)

			assert.Equal(t, http.StatusBadRequest, response.StatusCode)
			assert.Equal(t, testCase.wantMsg, body[testCase.wantField])
		})
	}
}

func TestHandler_SearchByDynasty_PagedEnvelope(t *testing.T) {
	server := newTestServer(t, &fakeRepository{poems: []*poetry.Poem{
		bare("p1", "唐", "五言"),
		bare("p2", "唐", "七言"),
		bare("p3", "唐", "五言"),
		bare("p4", "宋", "五言"),
	}})

	var body pagedBody
	response := getJSON(t, server, "/api/poetry/dynasty/唐?page=1&size=2", &body)

	assert.Equal(t, http.StatusOK, response.StatusCode)
	require.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.Meta.Page)
	assert.Equal(t, 2, body.Meta.Size)
	assert.Equal(t, 3, body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)

	var poem struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data[0], &poem))
	assert.Equal(t, "p3", poem.ID)
}

func TestHandler_SearchByTag_EmptyPageIsOK(t *testing.T) {
	server := newTestServer(t, &fakeRepository{poems: []*poetry.Poem{fullPoem()}})

	var body pagedBody
	response := getJSON(t, server, "/api/poetry/tag/边塞", &body)

	// An unknown tag is an empty page, never a 404.
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Data)
	assert.Equal(t, 0, body.Meta.Total)
	assert.Equal(t, 0, body.Meta.TotalPages)
}

func TestHandler_SearchByTitle_Defaults(t *testing.T) {
	poems := make([]*poetry.Poem, 0, 12)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		poem := bare(id, "唐", "五言")
		poem.Title = "望月" + id
		poems = append(poems, poem)
	}
	server := newTestServer(t, &fakeRepository{poems: poems})

	var body pagedBody
	response := getJSON(t, server, "/api/poetry/search/title?title=望月", &body)

	// Default page=0 size=10.
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Len(t, body.Data, 10)
	assert.Equal(t, 0, body.Meta.Page)
	assert.Equal(t, 10, body.Meta.Size)
	assert.Equal(t, 12, body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)
}

func TestHandler_StaticSegmentsWinOverID(t *testing.T) {
	server := newTestServer(t, &fakeRepository{poems: []*poetry.Poem{
		bare("random", "唐", "五言"),
		bare("other", "宋", "七言"),
	}})

	// "/random" must route to the random endpoint, not GetPoemByID("random").
	var body map[string]any
	response := getJSON(t, server, "/api/poetry/random", &body)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	// A poem whose id happens to be "random" is still reachable — by any
	// other id the fallback route matches.
	response = getJSON(t, server, "/api/poetry/other", &body)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "other", body["id"])
}
