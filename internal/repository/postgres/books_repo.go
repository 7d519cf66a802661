package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mx-styles/library-management-system/internal/models"
)

type booksRepo struct{ pool *pgxpool.Pool }

const bookColumns = `id, title, author, genre, available_copies, total_copies, created_at`

func scanBook(row pgx.Row) (models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.AvailableCopies, &b.TotalCopies, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Book{}, models.ErrNotFound
	}
	return b, err
}

func (r *booksRepo) Create(ctx context.Context, b models.Book) (models.Book, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return scanBook(r.pool.QueryRow(ctx,
		`INSERT INTO books(id, title, author, genre, available_copies, total_copies)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING `+bookColumns,
		b.ID, b.Title, b.Author, b.Genre, b.AvailableCopies, b.TotalCopies,
	))
}

func (r *booksRepo) GetByID(ctx context.Context, id string) (models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id=$1`, id))
}

func (r *booksRepo) Search(ctx context.Context, query string) ([]models.Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books`
	args := []any{}
	if query != "" {
		q += ` WHERE title ILIKE $1 OR author ILIKE $1 OR genre ILIKE $1`
		args = append(args, "%"+query+"%")
	}
	q += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *booksRepo) Update(ctx context.Context, b models.Book) (models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx,
		`UPDATE books
		    SET title=$2, author=$3, genre=$4, available_copies=$5, total_copies=$6
		  WHERE id=$1
		  RETURNING `+bookColumns,
		b.ID, b.Title, b.Author, b.Genre, b.AvailableCopies, b.TotalCopies,
	))
}

func (r *booksRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM books`).Scan(&n)
	return n, err
}
