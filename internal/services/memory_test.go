package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mx-styles/library-management-system/internal/models"
	repo "github.com/mx-styles/library-management-system/internal/repository"
)

// memStore is an in-memory stand-in for the postgres repositories.
// InTx snapshots state before running the callback so a failed
// transaction leaves nothing applied, mirroring the real rollback.
type memStore struct {
	mu        sync.Mutex
	books     map[string]models.Book
	bookOrder []string
	users     map[string]models.User
	userOrder []string
	borrows   map[string]models.BorrowRecord
	audits    []models.AuditLog
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		books:   map[string]models.Book{},
		users:   map[string]models.User{},
		borrows: map[string]models.BorrowRecord{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memBooks struct{ s *memStore }

func (m memBooks) Create(_ context.Context, b models.Book) (models.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = m.s.tick()
	m.s.books[b.ID] = b
	m.s.bookOrder = append(m.s.bookOrder, b.ID)
	return b, nil
}

func (m memBooks) GetByID(_ context.Context, id string) (models.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.books[id]
	if !ok {
		return models.Book{}, models.ErrNotFound
	}
	return b, nil
}

func (m memBooks) Search(_ context.Context, query string) ([]models.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Book
	for _, id := range m.s.bookOrder {
		b, ok := m.s.books[id]
		if !ok {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Genre), q) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m memBooks) Update(_ context.Context, b models.Book) (models.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.books[b.ID]
	if !ok {
		return models.Book{}, models.ErrNotFound
	}
	b.CreatedAt = existing.CreatedAt
	m.s.books[b.ID] = b
	return b, nil
}

func (m memBooks) Count(_ context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.books), nil
}

type memUsers struct{ s *memStore }

func (m memUsers) Create(_ context.Context, u models.User) (models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, other := range m.s.users {
		if other.Username == u.Username || other.Email == u.Email {
			return models.User{}, models.ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = m.s.tick()
	m.s.users[u.ID] = u
	m.s.userOrder = append(m.s.userOrder, u.ID)
	return u, nil
}

func (m memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (m memUsers) GetByUsername(_ context.Context, username string) (models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (m memUsers) List(_ context.Context) ([]models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]models.User, 0, len(m.s.userOrder))
	for _, id := range m.s.userOrder {
		out = append(out, m.s.users[id])
	}
	return out, nil
}

func (m memUsers) SetAdmin(_ context.Context, id string, isAdmin bool) (models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	u.IsAdmin = isAdmin
	m.s.users[id] = u
	return u, nil
}

type memBorrows struct{ s *memStore }

func (m memBorrows) GetByID(_ context.Context, id string) (models.BorrowRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.borrows[id]
	if !ok {
		return models.BorrowRecord{}, models.ErrNotFound
	}
	return rec, nil
}

func (m memBorrows) details(filter func(models.BorrowRecord) bool) []models.BorrowRecordDetail {
	var out []models.BorrowRecordDetail
	for _, rec := range m.s.borrows {
		if !filter(rec) {
			continue
		}
		out = append(out, models.NewBorrowRecordDetail(rec, m.s.books[rec.BookID]))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsReturned != out[j].IsReturned {
			return !out[i].IsReturned
		}
		if !out[i].BorrowDate.Equal(out[j].BorrowDate) {
			return out[i].BorrowDate.After(out[j].BorrowDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m memBorrows) ListDetailsByUser(_ context.Context, userID string) ([]models.BorrowRecordDetail, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.details(func(r models.BorrowRecord) bool { return r.UserID == userID }), nil
}

func (m memBorrows) ListAllDetails(_ context.Context) ([]models.BorrowRecordDetail, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.details(func(models.BorrowRecord) bool { return true }), nil
}

func (m memBorrows) InTx(_ context.Context, fn func(repo.Tx) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	booksBefore := make(map[string]models.Book, len(m.s.books))
	for k, v := range m.s.books {
		booksBefore[k] = v
	}
	borrowsBefore := make(map[string]models.BorrowRecord, len(m.s.borrows))
	for k, v := range m.s.borrows {
		borrowsBefore[k] = v
	}
	orderBefore := append([]string(nil), m.s.bookOrder...)

	if err := fn(memTx{m.s}); err != nil {
		m.s.books = booksBefore
		m.s.borrows = borrowsBefore
		m.s.bookOrder = orderBefore
		return err
	}
	return nil
}

type memTx struct{ s *memStore }

func (t memTx) GetBookForUpdate(_ context.Context, bookID string) (models.Book, error) {
	b, ok := t.s.books[bookID]
	if !ok {
		return models.Book{}, models.ErrNotFound
	}
	return b, nil
}

func (t memTx) AdjustAvailable(_ context.Context, bookID string, delta int) error {
	b, ok := t.s.books[bookID]
	if !ok {
		return models.ErrNotFound
	}
	b.AvailableCopies += delta
	t.s.books[bookID] = b
	return nil
}

func (t memTx) HasActiveBorrow(_ context.Context, userID, bookID string) (bool, error) {
	for _, rec := range t.s.borrows {
		if rec.UserID == userID && rec.BookID == bookID && !rec.IsReturned {
			return true, nil
		}
	}
	return false, nil
}

func (t memTx) CountActiveForBook(_ context.Context, bookID string) (int, error) {
	n := 0
	for _, rec := range t.s.borrows {
		if rec.BookID == bookID && !rec.IsReturned {
			n++
		}
	}
	return n, nil
}

func (t memTx) InsertBorrow(_ context.Context, rec models.BorrowRecord) (models.BorrowRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	t.s.borrows[rec.ID] = rec
	return rec, nil
}

func (t memTx) GetBorrowForUpdate(_ context.Context, borrowID string) (models.BorrowRecord, error) {
	rec, ok := t.s.borrows[borrowID]
	if !ok {
		return models.BorrowRecord{}, models.ErrNotFound
	}
	return rec, nil
}

func (t memTx) MarkReturned(_ context.Context, borrowID string, rec models.BorrowRecord) error {
	stored, ok := t.s.borrows[borrowID]
	if !ok {
		return models.ErrNotFound
	}
	stored.IsReturned = true
	stored.ReturnDate = rec.ReturnDate
	t.s.borrows[borrowID] = stored
	return nil
}

func (t memTx) DeleteBook(_ context.Context, bookID string) error {
	if _, ok := t.s.books[bookID]; !ok {
		return models.ErrNotFound
	}
	delete(t.s.books, bookID)
	// borrow history cascades with the book, like the schema's FK
	for id, rec := range t.s.borrows {
		if rec.BookID == bookID {
			delete(t.s.borrows, id)
		}
	}
	for i, id := range t.s.bookOrder {
		if id == bookID {
			t.s.bookOrder = append(t.s.bookOrder[:i], t.s.bookOrder[i+1:]...)
			break
		}
	}
	return nil
}

type memAudit struct{ s *memStore }

func (m memAudit) Create(_ context.Context, l models.AuditLog) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.audits = append(m.s.audits, l)
	return nil
}
