package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mx-styles/library-management-system/internal/metrics"
	"github.com/mx-styles/library-management-system/internal/models"
	repo "github.com/mx-styles/library-management-system/internal/repository"
)

// LendingService owns the borrow/return state machine. Every mutation of
// available_copies happens together with its ledger write inside one
// serializable transaction, so the counter always equals total_copies
// minus the open records for the book.
type LendingService struct {
	borrows repo.Borrows
	audit   *AuditTrail
	now     func() time.Time
}

func NewLendingService(borrows repo.Borrows, audit *AuditTrail) *LendingService {
	return &LendingService{borrows: borrows, audit: audit, now: func() time.Time { return time.Now().UTC() }}
}

func (s *LendingService) Borrow(ctx context.Context, userID, bookID string) (models.BorrowRecord, error) {
	var rec models.BorrowRecord
	err := s.borrows.InTx(ctx, func(tx repo.Tx) error {
		book, err := tx.GetBookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		if !book.IsAvailable() {
			return fmt.Errorf("%w: %q", models.ErrUnavailable, book.Title)
		}
		active, err := tx.HasActiveBorrow(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("%w: book already borrowed", models.ErrConflict)
		}
		rec, err = tx.InsertBorrow(ctx, models.BorrowRecord{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: s.now(),
		})
		if err != nil {
			return err
		}
		return tx.AdjustAvailable(ctx, bookID, -1)
	})
	if err != nil {
		metrics.LendingFailures.Inc()
		return models.BorrowRecord{}, err
	}
	metrics.BorrowsTotal.Inc()
	s.audit.Record("borrow_record", rec.ID, "borrowed", map[string]any{"user_id": userID, "book_id": bookID})
	return rec, nil
}

func (s *LendingService) Return(ctx context.Context, userID, borrowID string) (models.BorrowRecord, error) {
	var rec models.BorrowRecord
	err := s.borrows.InTx(ctx, func(tx repo.Tx) error {
		var err error
		rec, err = tx.GetBorrowForUpdate(ctx, borrowID)
		if err != nil {
			return err
		}
		// Records are only visible to their owner.
		if rec.UserID != userID {
			return models.ErrNotFound
		}
		if rec.IsReturned {
			return models.ErrAlreadyReturned
		}
		returnedAt := s.now()
		rec.IsReturned = true
		rec.ReturnDate = &returnedAt
		if err := tx.MarkReturned(ctx, borrowID, rec); err != nil {
			return err
		}
		return tx.AdjustAvailable(ctx, rec.BookID, +1)
	})
	if err != nil {
		metrics.LendingFailures.Inc()
		return models.BorrowRecord{}, err
	}
	metrics.ReturnsTotal.Inc()
	s.audit.Record("borrow_record", rec.ID, "returned", map[string]any{"user_id": userID, "book_id": rec.BookID})
	return rec, nil
}

func (s *LendingService) ListForUser(ctx context.Context, userID string) ([]models.BorrowRecordDetail, error) {
	return s.borrows.ListDetailsByUser(ctx, userID)
}

func (s *LendingService) ListAll(ctx context.Context) ([]models.BorrowRecordDetail, error) {
	return s.borrows.ListAllDetails(ctx)
}
