package http

import (
	"net/http"

	"github.com/books-api/cmd/api/book"
)

var statusByKind = map[book.Kind]int{
	book.KindValidation: http.StatusBadRequest,
	book.KindInvalidID:  http.StatusBadRequest,
	book.KindNotFound:   http.StatusNotFound,
	book.KindInternal:   http.StatusInternalServerError,
}

func statusFor(kind book.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
