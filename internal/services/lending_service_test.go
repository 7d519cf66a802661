package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mx-styles/library-management-system/internal/models"
	"github.com/mx-styles/library-management-system/internal/worker"
)

type lendingFixture struct {
	store   *memStore
	lending *LendingService
	catalog *CatalogService
	wp      *worker.Pool
}

func newLendingFixture(t *testing.T) *lendingFixture {
	t.Helper()
	store := newMemStore()
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)
	audit := NewAuditTrail(memAudit{store}, wp)
	return &lendingFixture{
		store:   store,
		lending: NewLendingService(memBorrows{store}, audit),
		catalog: NewCatalogService(memBooks{store}, memBorrows{store}, audit),
		wp:      wp,
	}
}

func (f *lendingFixture) addBook(t *testing.T, title string, copies int) models.Book {
	t.Helper()
	b, err := f.catalog.Create(context.Background(), models.Book{
		Title: title, Author: "Author", Genre: "Fiction",
		AvailableCopies: copies, TotalCopies: copies,
	})
	require.NoError(t, err)
	return b
}

func (f *lendingFixture) book(t *testing.T, id string) models.Book {
	t.Helper()
	b, err := f.catalog.Get(context.Background(), id)
	require.NoError(t, err)
	return b
}

func TestBorrow_DecrementsAvailability(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "The Hobbit", 2)

	rec, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, b.ID, rec.BookID)
	assert.False(t, rec.IsReturned)
	assert.Nil(t, rec.ReturnDate)
	assert.Equal(t, 1, f.book(t, b.ID).AvailableCopies)
}

func TestBorrow_LastCopyMakesBookUnavailable(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "The Great Gatsby", 1)

	_, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)

	got := f.book(t, b.ID)
	assert.Equal(t, 0, got.AvailableCopies)
	assert.False(t, got.IsAvailable())

	_, err = f.lending.Borrow(ctx, "user-2", b.ID)
	assert.ErrorIs(t, err, models.ErrUnavailable)
	// the failed attempt must not have touched the counter
	assert.Equal(t, 0, f.book(t, b.ID).AvailableCopies)
}

func TestBorrow_UnknownBook(t *testing.T) {
	f := newLendingFixture(t)
	_, err := f.lending.Borrow(context.Background(), "user-1", "no-such-book")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBorrow_DuplicateActiveBorrowRejected(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "1984", 2)

	_, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)

	_, err = f.lending.Borrow(ctx, "user-1", b.ID)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 1, f.book(t, b.ID).AvailableCopies)

	// a different user may still borrow
	_, err = f.lending.Borrow(ctx, "user-2", b.ID)
	assert.NoError(t, err)
}

func TestReturn_RestoresAvailability(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "Pride and Prejudice", 2)

	rec, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)
	require.Equal(t, 1, f.book(t, b.ID).AvailableCopies)

	returned, err := f.lending.Return(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.True(t, returned.IsReturned)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, 2, f.book(t, b.ID).AvailableCopies)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "1984", 1)

	rec, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)
	_, err = f.lending.Return(ctx, "user-1", rec.ID)
	require.NoError(t, err)

	_, err = f.lending.Return(ctx, "user-1", rec.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyReturned)
	// counter incremented exactly once
	assert.Equal(t, 1, f.book(t, b.ID).AvailableCopies)
}

func TestReturn_OtherUsersRecordIsInvisible(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "The Hobbit", 1)

	rec, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)

	_, err = f.lending.Return(ctx, "user-2", rec.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 0, f.book(t, b.ID).AvailableCopies)
}

func TestLending_CounterMatchesOpenRecords(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "To Kill a Mockingbird", 3)

	r1, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)
	_, err = f.lending.Borrow(ctx, "user-2", b.ID)
	require.NoError(t, err)
	_, err = f.lending.Return(ctx, "user-1", r1.ID)
	require.NoError(t, err)
	_, err = f.lending.Borrow(ctx, "user-3", b.ID)
	require.NoError(t, err)

	open := 0
	for _, rec := range f.store.borrows {
		if rec.BookID == b.ID && !rec.IsReturned {
			open++
		}
	}
	got := f.book(t, b.ID)
	assert.Equal(t, got.TotalCopies-open, got.AvailableCopies)
}

func TestListForUser_OpenFirstThenNewest(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b1 := f.addBook(t, "Book One", 1)
	b2 := f.addBook(t, "Book Two", 1)
	b3 := f.addBook(t, "Book Three", 1)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	f.lending.now = func() time.Time { return clock }

	r1, err := f.lending.Borrow(ctx, "user-1", b1.ID)
	require.NoError(t, err)
	clock = base.Add(time.Hour)
	_, err = f.lending.Borrow(ctx, "user-1", b2.ID)
	require.NoError(t, err)
	clock = base.Add(2 * time.Hour)
	_, err = f.lending.Borrow(ctx, "user-1", b3.ID)
	require.NoError(t, err)

	// return the oldest: it should sink below the open records
	_, err = f.lending.Return(ctx, "user-1", r1.ID)
	require.NoError(t, err)

	list, err := f.lending.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, b3.ID, list[0].BookID)
	assert.Equal(t, b2.ID, list[1].BookID)
	assert.Equal(t, b1.ID, list[2].BookID)
	assert.True(t, list[2].IsReturned)
	assert.Equal(t, list[0].BorrowDate.Add(models.LoanPeriod), list[0].DueDate)
}

func TestListForUser_TieBrokenByIDAscending(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b1 := f.addBook(t, "Book One", 1)
	b2 := f.addBook(t, "Book Two", 1)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.lending.now = func() time.Time { return at }

	ra, err := f.lending.Borrow(ctx, "user-1", b1.ID)
	require.NoError(t, err)
	rb, err := f.lending.Borrow(ctx, "user-1", b2.ID)
	require.NoError(t, err)

	list, err := f.lending.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	lo, hi := ra.ID, rb.ID
	if lo > hi {
		lo, hi = hi, lo
	}
	assert.Equal(t, lo, list[0].ID)
	assert.Equal(t, hi, list[1].ID)
}

func TestBorrow_WritesAuditEntry(t *testing.T) {
	f := newLendingFixture(t)
	ctx := context.Background()
	b := f.addBook(t, "The Hobbit", 1)

	rec, err := f.lending.Borrow(ctx, "user-1", b.ID)
	require.NoError(t, err)

	f.wp.Stop() // drain async writes

	var actions []string
	for _, l := range f.store.audits {
		if l.EntityType == "borrow_record" {
			actions = append(actions, l.Action)
			require.NotNil(t, l.EntityID)
			assert.Equal(t, rec.ID, *l.EntityID)
		}
	}
	assert.Equal(t, []string{"borrowed"}, actions)
}
