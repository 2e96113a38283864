package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/books-api/cmd/api/book"
	bookhttp "github.com/books-api/cmd/api/http"
	"github.com/books-api/cmd/api/inmemory"
	"github.com/google/uuid"
	"github.com/matryer/is"
)

// newInMemoryServer wires the router to a real service over the memdb store.
func newInMemoryServer(t *testing.T) *http.Server {
	t.Helper()
	store, err := inmemory.NewInMemoryStore()
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return bookhttp.NewServer(bookhttp.ServerConfig{Port: 3000}, bookhttp.NewBookHandler(book.NewService(store)))
}

type bookBody struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishedYear *int    `json:"publishedYear"`
	ISBN          *string `json:"isbn"`
}

func decodeBook(is *is.I, body string) bookBody {
	is.Helper()
	var b bookBody
	is.NoErr(json.Unmarshal([]byte(body), &b))
	return b
}

func countBooks(is *is.I, server *http.Server) int {
	is.Helper()
	response, body := do(server, http.MethodGet, "/api/v1/books", "")
	is.Equal(response.StatusCode, http.StatusOK)
	var books []bookBody
	is.NoErr(json.Unmarshal([]byte(body), &books))
	return len(books)
}

func TestBookLifecycle(t *testing.T) {
	is := is.New(t)
	server := newInMemoryServer(t)

	response, body := do(server, http.MethodPost, "/api/v1/books", `{"title":"Dune","author":"Herbert"}`)
	is.Equal(response.StatusCode, http.StatusCreated)
	created := decodeBook(is, body)
	_, err := uuid.Parse(created.ID)
	is.NoErr(err)
	is.Equal(body, fmt.Sprintf(`{"id":"%s","title":"Dune","author":"Herbert","publishedYear":null,"isbn":null}`+"\n", created.ID))

	path := "/api/v1/books/" + created.ID

	response, getBody := do(server, http.MethodGet, path, "")
	is.Equal(response.StatusCode, http.StatusOK)
	is.Equal(getBody, body)

	response, body = do(server, http.MethodPut, path, `{"title":"Dune","author":"Herbert","isbn":"123"}`)
	is.Equal(response.StatusCode, http.StatusOK)
	is.Equal(body, fmt.Sprintf(`{"id":"%s","title":"Dune","author":"Herbert","publishedYear":null,"isbn":"123"}`+"\n", created.ID))

	response, body = do(server, http.MethodDelete, path, "")
	is.Equal(response.StatusCode, http.StatusNoContent)
	is.Equal(body, "")

	response, _ = do(server, http.MethodGet, path, "")
	is.Equal(response.StatusCode, http.StatusNotFound)
}

func TestCreateWithoutRequiredFieldsStoresNothing(t *testing.T) {
	server := newInMemoryServer(t)

	for _, payload := range []string{
		`{"author":"Herbert"}`,
		`{"title":"Dune"}`,
		`{"title":"","author":"Herbert"}`,
		`{"title":null,"author":"Herbert","publishedYear":1965}`,
	} {
		t.Run(payload, func(t *testing.T) {
			is := is.New(t)

			before := countBooks(is, server)
			response, _ := do(server, http.MethodPost, "/api/v1/books", payload)
			is.Equal(response.StatusCode, http.StatusBadRequest)
			is.Equal(countBooks(is, server), before)
		})
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	server := newInMemoryServer(t)
	path := "/api/v1/books/" + uuid.NewString()

	t.Run("get", func(t *testing.T) {
		is := is.New(t)
		response, _ := do(server, http.MethodGet, path, "")
		is.Equal(response.StatusCode, http.StatusNotFound)
	})

	t.Run("update", func(t *testing.T) {
		is := is.New(t)
		response, _ := do(server, http.MethodPut, path, `{"title":"T","author":"A"}`)
		is.Equal(response.StatusCode, http.StatusNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		is := is.New(t)
		response, _ := do(server, http.MethodDelete, path, "")
		is.Equal(response.StatusCode, http.StatusNotFound)
	})
}

func TestSecondDeleteIsNotFound(t *testing.T) {
	is := is.New(t)
	server := newInMemoryServer(t)

	_, body := do(server, http.MethodPost, "/api/v1/books", `{"title":"Once","author":"Only"}`)
	path := "/api/v1/books/" + decodeBook(is, body).ID

	response, _ := do(server, http.MethodDelete, path, "")
	is.Equal(response.StatusCode, http.StatusNoContent)

	response, _ = do(server, http.MethodDelete, path, "")
	is.Equal(response.StatusCode, http.StatusNotFound)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	server := newInMemoryServer(t)

	t.Run("changing only isbn keeps title and author", func(t *testing.T) {
		is := is.New(t)

		_, body := do(server, http.MethodPost, "/api/v1/books", `{"title":"Dune","author":"Herbert","publishedYear":1965,"isbn":"111"}`)
		created := decodeBook(is, body)
		path := "/api/v1/books/" + created.ID

		response, body := do(server, http.MethodPut, path, `{"title":"Dune","author":"Herbert","publishedYear":1965,"isbn":"222"}`)
		is.Equal(response.StatusCode, http.StatusOK)
		updated := decodeBook(is, body)
		is.Equal(updated.Title, "Dune")
		is.Equal(updated.Author, "Herbert")
		is.Equal(*updated.ISBN, "222")
		is.Equal(*updated.PublishedYear, 1965)
	})

	t.Run("omitted optional fields are cleared", func(t *testing.T) {
		is := is.New(t)

		_, body := do(server, http.MethodPost, "/api/v1/books", `{"title":"Emma","author":"Austen","publishedYear":1815}`)
		path := "/api/v1/books/" + decodeBook(is, body).ID

		_, body = do(server, http.MethodPut, path, `{"title":"Emma","author":"Austen"}`)
		is.True(decodeBook(is, body).PublishedYear == nil)
	})

	t.Run("omitting title is rejected and the record is unchanged", func(t *testing.T) {
		is := is.New(t)

		_, original := do(server, http.MethodPost, "/api/v1/books", `{"title":"Kept","author":"Writer","isbn":"9"}`)
		path := "/api/v1/books/" + decodeBook(is, original).ID

		response, _ := do(server, http.MethodPut, path, `{"author":"Writer","isbn":"10"}`)
		is.Equal(response.StatusCode, http.StatusBadRequest)

		_, stored := do(server, http.MethodGet, path, "")
		is.Equal(stored, original)
	})
}
