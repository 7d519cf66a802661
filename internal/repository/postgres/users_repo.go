package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mx-styles/library-management-system/internal/models"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userColumns = `id, username, email, password_hash, is_active, is_admin, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsAdmin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	return u, err
}

// asConflict translates a unique violation on username/email into the
// domain conflict error.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.ErrConflict
	}
	return err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	created, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, email, password_hash, is_active, is_admin)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING `+userColumns,
		u.ID, u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsAdmin,
	))
	if err != nil {
		return models.User{}, asConflict(err)
	}
	return created, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1`, username))
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET is_admin=$2 WHERE id=$1 RETURNING `+userColumns,
		id, isAdmin,
	))
}
