package repository

import (
	"context"

	"github.com/mx-styles/library-management-system/internal/models"
)

type Books interface {
	Create(ctx context.Context, b models.Book) (models.Book, error)
	GetByID(ctx context.Context, id string) (models.Book, error)
	// Search returns books whose title, author or genre contains the query,
	// case-insensitively. An empty query returns the full catalog in
	// insertion order.
	Search(ctx context.Context, query string) ([]models.Book, error)
	Update(ctx context.Context, b models.Book) (models.Book, error)
	Count(ctx context.Context) (int, error)
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) (models.User, error)
}

// Tx is the set of operations available inside one lending transaction.
// The postgres implementation runs them on a serializable pgx.Tx so the
// availability check and the counter update cannot interleave with a
// concurrent borrow of the same book.
type Tx interface {
	GetBookForUpdate(ctx context.Context, bookID string) (models.Book, error)
	AdjustAvailable(ctx context.Context, bookID string, delta int) error
	HasActiveBorrow(ctx context.Context, userID, bookID string) (bool, error)
	CountActiveForBook(ctx context.Context, bookID string) (int, error)
	InsertBorrow(ctx context.Context, rec models.BorrowRecord) (models.BorrowRecord, error)
	GetBorrowForUpdate(ctx context.Context, borrowID string) (models.BorrowRecord, error)
	MarkReturned(ctx context.Context, borrowID string, rec models.BorrowRecord) error
	DeleteBook(ctx context.Context, bookID string) error
}

type Borrows interface {
	GetByID(ctx context.Context, id string) (models.BorrowRecord, error)
	ListDetailsByUser(ctx context.Context, userID string) ([]models.BorrowRecordDetail, error)
	ListAllDetails(ctx context.Context) ([]models.BorrowRecordDetail, error)
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
