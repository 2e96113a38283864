package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/books-api/cmd/api/book"
	"github.com/lib/pq"
	"github.com/matryer/is"
)

func TestClassify(t *testing.T) {

	t.Run("maps a check violation to a validation error", func(t *testing.T) {
		is := is.New(t)

		err := classify(&pq.Error{Code: "23514", Message: `new row for relation "books" violates check constraint "books_title_check"`})
		is.Equal(book.KindOf(err), book.KindValidation)
		is.Equal(err.Error(), `book validation failed: new row for relation "books" violates check constraint "books_title_check"`)
	})

	t.Run("maps an out of range value to a validation error", func(t *testing.T) {
		is := is.New(t)

		err := classify(fmt.Errorf("scanning: %w", &pq.Error{Code: "22003", Message: "value out of range for type bigint"}))
		is.Equal(book.KindOf(err), book.KindValidation)
		is.Equal(err.Error(), "book validation failed: value out of range for type bigint")
	})

	t.Run("keeps connection failures internal", func(t *testing.T) {
		is := is.New(t)

		connErr := &pq.Error{Code: "08006", Message: "connection failure"}
		err := classify(connErr)
		is.Equal(book.KindOf(err), book.KindInternal)
		is.True(errors.Is(err, connErr))
	})

	t.Run("keeps foreign errors untouched", func(t *testing.T) {
		is := is.New(t)

		plain := errors.New("driver: bad connection")
		is.Equal(classify(plain), plain)
	})
}
