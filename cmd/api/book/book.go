package book

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID            uuid.UUID
	Title         string
	Author        string
	PublishedYear *int
	ISBN          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Fields holds every client-writable field of a book. Create and replace both
// take the complete set, so an absent optional field is stored as nil.
type Fields struct {
	Title         string
	Author        string
	PublishedYear *int
	ISBN          *string
}

func (b Book) Fields() Fields {
	return Fields{
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		ISBN:          b.ISBN,
	}
}

type ValidationResult struct {
	Missing []string
}

func (v ValidationResult) Valid() bool {
	return len(v.Missing) == 0
}

/* Returns nil for a valid result, or the blank fields error otherwise. */
func (v ValidationResult) Err() error {
	if v.Valid() {
		return nil
	}
	return ErrResponseBookEntryBlankFields
}

/* Verifies that the required fields, title and author, are filled. */
func ValidateFields(f Fields) ValidationResult {
	var result ValidationResult
	if f.Title == "" {
		result.Missing = append(result.Missing, "title")
	}
	if f.Author == "" {
		result.Missing = append(result.Missing, "author")
	}
	return result
}
