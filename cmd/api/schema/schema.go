// Package schema holds the stored shape of a book record and the rules a
// store applies before writing one. Stores validate independently of the
// HTTP layer.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/books-api/cmd/api/book"
	"github.com/go-playground/validator/v10"
)

type Record struct {
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	PublishedYear *int    `json:"publishedYear"`
	ISBN          *string `json:"isbn"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func FromFields(f book.Fields) Record {
	return Record{
		Title:         f.Title,
		Author:        f.Author,
		PublishedYear: f.PublishedYear,
		ISBN:          f.ISBN,
	}
}

// Validate checks the record rules and returns a validation ErrResponse whose
// message lists every failing field, e.g.
// "book validation failed: title: title is required".
func Validate(f book.Fields) error {
	err := validate.Struct(FromFields(f))
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating book record: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fieldMessage(fe)))
	}
	return book.NewValidationError("book validation failed: " + strings.Join(msgs, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
