package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/books-api/cmd/api/book"
	"github.com/books-api/cmd/api/schema"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	checkViolation = pq.ErrorCode("23514")
	dataException  = pq.ErrorClass("22")
)

const bookColumns = `id, title, author, published_year, isbn, created_at, updated_at`

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

/* Connects to the database trought a connection string and returns a pointer to a valid DB object (*sql.DB). */
func ConnectDb(connStr string) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to db, openning: %w", err)
	}

	err = sqlDB.Ping()
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to db, pingging: %w", err)
	}

	return sqlDB, nil
}

/* Applies the file migrations found at path. Returns migrate.ErrNoChange, wrapped, when there is nothing to apply. */
func MigrationUp(store *Store, path string) error {
	driver, err := postgres.WithInstance(store.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", path),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	err = m.Up()
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (book.Book, error) {
	var b book.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublishedYear, &b.ISBN, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

/* Translates constraint violations and rejected values into validation errors, keeping the driver message. */
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Code == checkViolation || pqErr.Code.Class() == dataException {
		return book.NewValidationError("book validation failed: " + pqErr.Message)
	}
	return err
}

func now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

/* Returns every book ordered by creation. */
func (store *Store) FindAll(ctx context.Context) ([]book.Book, error) {
	sqlStatement := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at, id;`

	rows, err := store.db.QueryContext(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}
	defer rows.Close()

	bookslist := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("listing books from db: %w", err)
		}
		bookslist = append(bookslist, b)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	return bookslist, nil
}

/* Validates and stores the book into the database, returning the stored row. */
func (store *Store) Create(ctx context.Context, f book.Fields) (book.Book, error) {
	if err := schema.Validate(f); err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	createdAt := now()
	sqlStatement := `
	INSERT INTO books (id, title, author, published_year, isbn, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	RETURNING ` + bookColumns
	createdRow := store.db.QueryRowContext(ctx, sqlStatement, uuid.New(), f.Title, f.Author, f.PublishedYear, f.ISBN, createdAt)
	b, err := scanBook(createdRow)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", classify(err))
	}

	return b, nil
}

/* Searches a book in database based on ID and returns it if succeed. */
func (store *Store) FindByID(ctx context.Context, id uuid.UUID) (book.Book, error) {
	sqlStatement := `SELECT ` + bookColumns + ` FROM books WHERE id = $1;`
	b, err := scanBook(store.db.QueryRowContext(ctx, sqlStatement, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("searching by ID: %w", err)
		}
	}

	return b, nil
}

/* Replaces the writable columns of a book and returns the row after the update. */
func (store *Store) FindAndReplace(ctx context.Context, id uuid.UUID, f book.Fields) (book.Book, error) {
	if err := schema.Validate(f); err != nil {
		return book.Book{}, fmt.Errorf("updating on db: %w", err)
	}

	sqlStatement := `
	UPDATE books
	SET title = $2, author = $3, published_year = $4, isbn = $5, updated_at = $6
	WHERE id = $1
	RETURNING ` + bookColumns
	updatedRow := store.db.QueryRowContext(ctx, sqlStatement, id, f.Title, f.Author, f.PublishedYear, f.ISBN, now())
	b, err := scanBook(updatedRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return book.Book{}, fmt.Errorf("updating on db: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("updating on db: %w", classify(err))
		}
	}

	return b, nil
}

/* Deletes the book row and returns what was deleted. */
func (store *Store) FindAndDelete(ctx context.Context, id uuid.UUID) (book.Book, error) {
	sqlStatement := `DELETE FROM books WHERE id = $1 RETURNING ` + bookColumns
	b, err := scanBook(store.db.QueryRowContext(ctx, sqlStatement, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return book.Book{}, fmt.Errorf("deleting from db: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("deleting from db: %w", err)
		}
	}

	return b, nil
}

func (store *Store) Ping(ctx context.Context) error {
	return store.db.PingContext(ctx)
}

func (store *Store) Close() error {
	return store.db.Close()
}
