package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mx-styles/library-management-system/internal/models"
	repo "github.com/mx-styles/library-management-system/internal/repository"
)

type CatalogService struct {
	books   repo.Books
	borrows repo.Borrows
	audit   *AuditTrail
}

func NewCatalogService(books repo.Books, borrows repo.Borrows, audit *AuditTrail) *CatalogService {
	return &CatalogService{books: books, borrows: borrows, audit: audit}
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Book, error) {
	return s.books.Search(ctx, strings.TrimSpace(query))
}

func (s *CatalogService) Get(ctx context.Context, id string) (models.Book, error) {
	return s.books.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, b models.Book) (models.Book, error) {
	if err := b.Validate(); err != nil {
		return models.Book{}, err
	}
	created, err := s.books.Create(ctx, b)
	if err != nil {
		return models.Book{}, err
	}
	s.audit.Record("book", created.ID, "created", map[string]any{"title": created.Title})
	return created, nil
}

func (s *CatalogService) Update(ctx context.Context, b models.Book) (models.Book, error) {
	if err := b.Validate(); err != nil {
		return models.Book{}, err
	}
	updated, err := s.books.Update(ctx, b)
	if err != nil {
		return models.Book{}, err
	}
	s.audit.Record("book", updated.ID, "updated", map[string]any{"title": updated.Title})
	return updated, nil
}

// Delete removes a book from the catalog. A book with open borrows
// cannot be deleted; the check runs in the same transaction as the
// delete so a concurrent borrow cannot slip in between.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := s.borrows.InTx(ctx, func(tx repo.Tx) error {
		active, err := tx.CountActiveForBook(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: book has %d active borrows", models.ErrConflict, active)
		}
		return tx.DeleteBook(ctx, id)
	})
	if err != nil {
		return err
	}
	s.audit.Record("book", id, "deleted", nil)
	return nil
}
