package schema_test

import (
	"testing"

	"github.com/books-api/cmd/api/book"
	"github.com/books-api/cmd/api/schema"
	"github.com/matryer/is"
)

func TestValidate(t *testing.T) {

	t.Run("accepts a record with only the required fields", func(t *testing.T) {
		is := is.New(t)

		is.NoErr(schema.Validate(book.Fields{Title: "Dune", Author: "Herbert"}))
	})

	t.Run("accepts any year and isbn", func(t *testing.T) {
		is := is.New(t)

		year := -300
		isbn := "not really an isbn"
		is.NoErr(schema.Validate(book.Fields{Title: "Old", Author: "Someone", PublishedYear: &year, ISBN: &isbn}))
	})

	t.Run("rejects a record without title", func(t *testing.T) {
		is := is.New(t)

		err := schema.Validate(book.Fields{Author: "Herbert"})
		is.Equal(book.KindOf(err), book.KindValidation)
		is.Equal(err.Error(), "book validation failed: title: title is required")
	})

	t.Run("lists every failing field", func(t *testing.T) {
		is := is.New(t)

		err := schema.Validate(book.Fields{})
		is.Equal(book.KindOf(err), book.KindValidation)
		is.Equal(err.Error(), "book validation failed: title: title is required, author: author is required")
	})
}
