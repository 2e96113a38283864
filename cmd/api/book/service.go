package book

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks github.com/books-api/cmd/api/book Repository

type ServiceAPI interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, req Fields) (Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req Fields) (Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// Repository is the persistence collaborator. Implementations assign ids and
// timestamps and validate records on every write.
type Repository interface {
	FindAll(ctx context.Context) ([]Book, error)
	Create(ctx context.Context, f Fields) (Book, error)
	FindByID(ctx context.Context, id uuid.UUID) (Book, error)
	FindAndReplace(ctx context.Context, id uuid.UUID, f Fields) (Book, error)
	FindAndDelete(ctx context.Context, id uuid.UUID) (Book, error)
	Ping(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

func (s *Service) CreateBook(ctx context.Context, req Fields) (Book, error) {
	b, err := s.repo.Create(ctx, req)
	if err != nil {
		return Book{}, fmt.Errorf("creating book: %w", err)
	}
	return b, nil
}

func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("getting book %s: %w", id, err)
	}
	return b, nil
}

/* Replaces all the writable fields of the book, keeping its ID. */
func (s *Service) UpdateBook(ctx context.Context, id uuid.UUID, req Fields) (Book, error) {
	b, err := s.repo.FindAndReplace(ctx, id, req)
	if err != nil {
		return Book{}, fmt.Errorf("updating book %s: %w", id, err)
	}
	return b, nil
}

func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FindAndDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting book %s: %w", id, err)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
