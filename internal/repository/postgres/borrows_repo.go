package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mx-styles/library-management-system/internal/models"
	"github.com/mx-styles/library-management-system/internal/repository"
)

type borrowsRepo struct{ pool *pgxpool.Pool }

const borrowColumns = `id, user_id, book_id, borrow_date, return_date, is_returned`

func scanBorrow(row pgx.Row) (models.BorrowRecord, error) {
	var rec models.BorrowRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.ReturnDate, &rec.IsReturned)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.BorrowRecord{}, models.ErrNotFound
	}
	return rec, err
}

func (r *borrowsRepo) GetByID(ctx context.Context, id string) (models.BorrowRecord, error) {
	return scanBorrow(r.pool.QueryRow(ctx,
		`SELECT `+borrowColumns+` FROM borrow_records WHERE id=$1`, id))
}

// detailQuery joins each record with its book. Open borrows come first,
// then newest borrow_date; ids break timestamp ties deterministically.
const detailQuery = `
SELECT r.id, r.user_id, r.book_id, r.borrow_date, r.return_date, r.is_returned,
       b.id, b.title, b.author, b.genre, b.available_copies, b.total_copies, b.created_at
  FROM borrow_records r
  JOIN books b ON b.id = r.book_id`

const detailOrder = ` ORDER BY r.is_returned, r.borrow_date DESC, r.id`

func scanDetails(rows pgx.Rows) ([]models.BorrowRecordDetail, error) {
	defer rows.Close()
	var out []models.BorrowRecordDetail
	for rows.Next() {
		var rec models.BorrowRecord
		var b models.Book
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.ReturnDate, &rec.IsReturned,
			&b.ID, &b.Title, &b.Author, &b.Genre, &b.AvailableCopies, &b.TotalCopies, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, models.NewBorrowRecordDetail(rec, b))
	}
	return out, rows.Err()
}

func (r *borrowsRepo) ListDetailsByUser(ctx context.Context, userID string) ([]models.BorrowRecordDetail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` WHERE r.user_id=$1`+detailOrder, userID)
	if err != nil {
		return nil, err
	}
	return scanDetails(rows)
}

func (r *borrowsRepo) ListAllDetails(ctx context.Context) ([]models.BorrowRecordDetail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+detailOrder)
	if err != nil {
		return nil, err
	}
	return scanDetails(rows)
}

// InTx runs fn inside one serializable transaction.
func (r *borrowsRepo) InTx(ctx context.Context, fn func(repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(&lendingTx{tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type lendingTx struct{ tx pgx.Tx }

func (t *lendingTx) GetBookForUpdate(ctx context.Context, bookID string) (models.Book, error) {
	return scanBook(t.tx.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id=$1 FOR UPDATE`, bookID))
}

func (t *lendingTx) AdjustAvailable(ctx context.Context, bookID string, delta int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE books SET available_copies = available_copies + $2 WHERE id=$1`,
		bookID, delta,
	)
	return err
}

func (t *lendingTx) HasActiveBorrow(ctx context.Context, userID, bookID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM borrow_records
		     WHERE user_id=$1 AND book_id=$2 AND is_returned=false)`,
		userID, bookID,
	).Scan(&exists)
	return exists, err
}

func (t *lendingTx) CountActiveForBook(ctx context.Context, bookID string) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT count(*) FROM borrow_records WHERE book_id=$1 AND is_returned=false`,
		bookID,
	).Scan(&n)
	return n, err
}

func (t *lendingTx) InsertBorrow(ctx context.Context, rec models.BorrowRecord) (models.BorrowRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return scanBorrow(t.tx.QueryRow(ctx,
		`INSERT INTO borrow_records(id, user_id, book_id, borrow_date, is_returned)
		 VALUES($1,$2,$3,$4,false)
		 RETURNING `+borrowColumns,
		rec.ID, rec.UserID, rec.BookID, rec.BorrowDate,
	))
}

func (t *lendingTx) GetBorrowForUpdate(ctx context.Context, borrowID string) (models.BorrowRecord, error) {
	return scanBorrow(t.tx.QueryRow(ctx,
		`SELECT `+borrowColumns+` FROM borrow_records WHERE id=$1 FOR UPDATE`, borrowID))
}

func (t *lendingTx) MarkReturned(ctx context.Context, borrowID string, rec models.BorrowRecord) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE borrow_records SET is_returned=true, return_date=$2 WHERE id=$1`,
		borrowID, rec.ReturnDate,
	)
	return err
}

func (t *lendingTx) DeleteBook(ctx context.Context, bookID string) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM books WHERE id=$1`, bookID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
