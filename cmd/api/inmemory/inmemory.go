package inmemory

import (
	"context"
	"fmt"
	"time"

	"github.com/books-api/cmd/api/book"
	"github.com/books-api/cmd/api/schema"
	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

const bookTable = "book"

type InMemoryStore struct {
	db  *memdb.MemDB
	seq uint64 // guarded by the memdb writer lock
}

func NewInMemoryStore() (*InMemoryStore, error) {
	dbSchema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			bookTable: {
				Name: bookTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"seq": { // insertion order, used by FindAll
						Name:    "seq",
						Unique:  true,
						Indexer: &memdb.UintFieldIndex{Field: "Seq"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &InMemoryStore{db: db}, nil
}

type storedBook struct {
	ID            string
	Seq           uint64
	Title         string
	Author        string
	PublishedYear *int
	ISBN          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func toStored(b book.Book, seq uint64) storedBook {
	return storedBook{
		ID:            b.ID.String(),
		Seq:           seq,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: clone(b.PublishedYear),
		ISBN:          clone(b.ISBN),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (s storedBook) toBook() book.Book {
	return book.Book{
		ID:            uuid.MustParse(s.ID),
		Title:         s.Title,
		Author:        s.Author,
		PublishedYear: clone(s.PublishedYear),
		ISBN:          clone(s.ISBN),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// clone copies the pointed-to value so stored records never alias caller memory.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

/* Returns every stored book in insertion order. */
func (store *InMemoryStore) FindAll(ctx context.Context) ([]book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(bookTable, "seq")
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	books := []book.Book{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		books = append(books, obj.(storedBook).toBook())
	}
	return books, nil
}

/* Validates and stores a new book, assigning its ID and timestamps. */
func (store *InMemoryStore) Create(ctx context.Context, f book.Fields) (book.Book, error) {
	if err := schema.Validate(f); err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	createdAt := now()
	b := book.Book{
		ID:            uuid.New(),
		Title:         f.Title,
		Author:        f.Author,
		PublishedYear: f.PublishedYear,
		ISBN:          f.ISBN,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	txn := store.db.Txn(true)
	defer txn.Abort()

	store.seq++
	stored := toStored(b, store.seq)
	if err := txn.Insert(bookTable, stored); err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}
	txn.Commit()

	return stored.toBook(), nil
}

func (store *InMemoryStore) FindByID(ctx context.Context, id uuid.UUID) (book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(bookTable, "id", id.String())
	if err != nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
	}

	return raw.(storedBook).toBook(), nil
}

/* Replaces the writable fields of a stored book and returns it after the update. */
func (store *InMemoryStore) FindAndReplace(ctx context.Context, id uuid.UUID, f book.Fields) (book.Book, error) {
	if err := schema.Validate(f); err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}

	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bookTable, "id", id.String())
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", book.ErrResponseBookNotFound)
	}

	updated := raw.(storedBook)
	updated.Title = f.Title
	updated.Author = f.Author
	updated.PublishedYear = clone(f.PublishedYear)
	updated.ISBN = clone(f.ISBN)
	//ID, Seq and CreatedAt will not change
	updated.UpdatedAt = now()

	if err := txn.Insert(bookTable, updated); err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}
	txn.Commit()

	return updated.toBook(), nil
}

/* Removes a stored book and returns what was removed. */
func (store *InMemoryStore) FindAndDelete(ctx context.Context, id uuid.UUID) (book.Book, error) {
	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bookTable, "id", id.String())
	if err != nil {
		return book.Book{}, fmt.Errorf("deleting book on db: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("deleting book on db: %w", book.ErrResponseBookNotFound)
	}

	if err := txn.Delete(bookTable, raw); err != nil {
		return book.Book{}, fmt.Errorf("deleting book on db: %w", err)
	}
	txn.Commit()

	return raw.(storedBook).toBook(), nil
}

func (store *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}
