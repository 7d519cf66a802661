package models

import "time"

// LoanPeriod is how long a borrowed copy may be kept before it is due.
const LoanPeriod = 14 * 24 * time.Hour

type BorrowRecord struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	IsReturned bool       `json:"is_returned"`
}

func (r *BorrowRecord) DueDate() time.Time { return r.BorrowDate.Add(LoanPeriod) }

// BorrowRecordDetail is the read model served to borrowers and admins:
// the raw record joined with its book, plus the computed due date.
type BorrowRecordDetail struct {
	BorrowRecord
	Book    Book      `json:"book"`
	DueDate time.Time `json:"due_date"`
}

func NewBorrowRecordDetail(rec BorrowRecord, book Book) BorrowRecordDetail {
	return BorrowRecordDetail{BorrowRecord: rec, Book: book, DueDate: rec.DueDate()}
}
