package book

import (
	"errors"
)

// Kind classifies an error so the HTTP boundary can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidID
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidID:
		return "invalid_id"
	default:
		return "internal"
	}
}

type ErrResponse struct {
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
}

func (e ErrResponse) Error() string {
	return e.Message
}

var ErrResponseBookEntryBlankFields = ErrResponse{KindValidation, "Title and author are required"}
var ErrResponseBookNotFound = ErrResponse{KindNotFound, "Book not found"}
var ErrResponseEntryInvalidJSON = ErrResponse{KindValidation, "invalid json request: "}
var ErrResponseIdInvalidFormat = ErrResponse{KindInvalidID, "the endpoint is not a valid format ID. Must be /api/v1/books/{uuid}"}
var ErrResponseListingBooks = ErrResponse{KindInternal, "Error fetching books"}
var ErrResponseFetchingBook = ErrResponse{KindInternal, "Error fetching book"}
var ErrResponseCreatingBook = ErrResponse{KindInternal, "Error creating book"}
var ErrResponseUpdatingBook = ErrResponse{KindInternal, "Error updating book"}
var ErrResponseDeletingBook = ErrResponse{KindInternal, "Error deleting book"}
var ErrResponseStoreNotReady = ErrResponse{KindInternal, "database not ready"}
var ErrResponseInternal = ErrResponse{KindInternal, "Internal server error"}

/* Builds a validation error carrying the persistence layer message verbatim. */
func NewValidationError(message string) ErrResponse {
	return ErrResponse{Kind: KindValidation, Message: message}
}

/* Returns the kind of the first ErrResponse found in the chain, KindInternal if there is none. */
func KindOf(err error) Kind {
	var errR ErrResponse
	if errors.As(err, &errR) {
		return errR.Kind
	}
	return KindInternal
}
