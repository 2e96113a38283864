package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/books-api/cmd/api/book"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

//go:generate mockgen -destination=mocks/service.go -package=mocks github.com/books-api/cmd/api/book ServiceAPI

type BookHandler struct {
	bookService book.ServiceAPI
}

func NewBookHandler(bookService book.ServiceAPI) *BookHandler {
	return &BookHandler{bookService: bookService}
}

/* Addresses a call to "/api/v1/books/(expected id here)" according to the requested action.  */
func (h *BookHandler) bookById(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	switch method {
	case http.MethodGet:
		h.getBookById(w, r)
		return
	case http.MethodPut:
		h.updateBook(w, r)
		return
	case http.MethodDelete:
		h.deleteBook(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

/* Addresses a call to "/api/v1/books" according to the requested action.  */
func (h *BookHandler) books(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	switch method {
	case http.MethodGet:
		h.listBooks(w, r)
		return
	case http.MethodPost:
		h.createBook(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

type BookEntry struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishedYear *int    `json:"publishedYear"`
	ISBN          *string `json:"isbn"`
}

/* Validates the entry, then stores the entry as a new book. */
func (h *BookHandler) createBook(w http.ResponseWriter, r *http.Request) {
	bookEntry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	storedBook, err := h.bookService.CreateBook(r.Context(), bookEntry)
	if err != nil {
		responseError(w, r, err, book.ErrResponseCreatingBook)
		return
	}

	responseJSON(w, r, http.StatusCreated, bookToResponse(storedBook))
}

/* Validates the entry, then replaces every field of the asked book. */
func (h *BookHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}

	bookEntry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	updatedBook, err := h.bookService.UpdateBook(r.Context(), id, bookEntry)
	if err != nil {
		responseError(w, r, err, book.ErrResponseUpdatingBook)
		return
	}

	responseJSON(w, r, http.StatusOK, bookToResponse(updatedBook))
}

/* Returns the book with that specific ID. */
func (h *BookHandler) getBookById(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}

	returnedBook, err := h.bookService.GetBook(r.Context(), id)
	if err != nil {
		responseError(w, r, err, book.ErrResponseFetchingBook)
		return
	}

	responseJSON(w, r, http.StatusOK, bookToResponse(returnedBook))
}

/* Removes the book with that specific ID. */
func (h *BookHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := isolateId(w, r)
	if !ok {
		return
	}

	err := h.bookService.DeleteBook(r.Context(), id)
	if err != nil {
		responseError(w, r, err, book.ErrResponseDeletingBook)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/* Returns every stored book. */
func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.ListBooks(r.Context())
	if err != nil {
		responseError(w, r, err, book.ErrResponseListingBooks)
		return
	}

	results := make([]BookResponse, 0, len(books))
	for _, b := range books {
		results = append(results, bookToResponse(b))
	}
	responseJSON(w, r, http.StatusOK, results)
}

/* Reports whether the book store can be reached. */
func (h *BookHandler) ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	err := h.bookService.Ping(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("store not ready")
		responseJSON(w, r, http.StatusServiceUnavailable, book.ErrResponseStoreNotReady)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* Reads the JSON body and checks the required fields, writing a 400 response when either fails. */
func decodeEntry(w http.ResponseWriter, r *http.Request) (book.Fields, bool) {
	var bookEntry BookEntry
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&bookEntry)
	if err == nil {
		err = expectEOF(dec)
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("decoding book entry")
		errR := book.ErrResponse{
			Kind:    book.ErrResponseEntryInvalidJSON.Kind,
			Message: book.ErrResponseEntryInvalidJSON.Message + err.Error(),
		}
		responseJSON(w, r, statusFor(errR.Kind), errR)
		return book.Fields{}, false
	}

	fields := entryToFields(bookEntry)
	if err := book.ValidateFields(fields).Err(); err != nil {
		responseError(w, r, err, book.ErrResponseBookEntryBlankFields)
		return book.Fields{}, false
	}
	return fields, true
}

var errTrailingData = errors.New("body must contain a single JSON object")

/* Makes sure nothing but whitespace follows the decoded value. */
func expectEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	err := dec.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	return errTrailingData
}

/* Converts from BookEntry type to book.Fields, with no json tags. */
func entryToFields(b BookEntry) book.Fields {
	return book.Fields{
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		ISBN:          b.ISBN,
	}
}

/* Isolates the ID from the URL, writing a 400 response when it is not a valid UUID. */
func isolateId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	justId, _ := strings.CutPrefix(r.URL.Path, BasePath+"/books/")
	id, err := uuid.Parse(justId)
	if err != nil {
		responseError(w, r, err, book.ErrResponseIdInvalidFormat)
		return uuid.Nil, false
	}
	return id, true
}

type BookResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear *int      `json:"publishedYear"`
	ISBN          *string   `json:"isbn"`
}

/*Copy the fields of a book object to an http layer struct with json tags*/
func bookToResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		ISBN:          b.ISBN,
	}
}

/*Writes a JSON response into a http.ResponseWriter. */
func responseJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encoding response")
	}
}

// responseError writes err as a JSON error body. Errors carrying a known
// ErrResponse keep their message; anything else, and every internal error,
// answers with fallback so causes are never exposed.
func responseError(w http.ResponseWriter, r *http.Request, err error, fallback book.ErrResponse) {
	errR := fallback
	var known book.ErrResponse
	if errors.As(err, &known) && known.Kind != book.KindInternal {
		errR = known
	}

	status := statusFor(errR.Kind)
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Str("kind", errR.Kind.String()).Msg(errR.Message)

	responseJSON(w, r, status, errR)
}
