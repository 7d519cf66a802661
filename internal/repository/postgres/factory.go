package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/mx-styles/library-management-system/internal/repository"
)

type Repositories struct {
	Books     repo.Books
	Users     repo.Users
	Borrows   repo.Borrows
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Books:     &booksRepo{pool},
		Users:     &usersRepo{pool},
		Borrows:   &borrowsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
