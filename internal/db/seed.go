package db

import (
	"context"
	"log/slog"

	"github.com/mx-styles/library-management-system/internal/models"
	repo "github.com/mx-styles/library-management-system/internal/repository"
)

// SeedBooks loads the starter catalog once, when the books table is empty.
func SeedBooks(ctx context.Context, books repo.Books) error {
	n, err := books.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	initial := []models.Book{
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction", AvailableCopies: 3, TotalCopies: 3},
		{Title: "1984", Author: "George Orwell", Genre: "Science Fiction", AvailableCopies: 2, TotalCopies: 2},
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", AvailableCopies: 1, TotalCopies: 1},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", AvailableCopies: 2, TotalCopies: 2},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", AvailableCopies: 2, TotalCopies: 2},
	}
	for _, b := range initial {
		if _, err := books.Create(ctx, b); err != nil {
			return err
		}
	}
	slog.Info("seeded catalog", "books", len(initial))
	return nil
}
