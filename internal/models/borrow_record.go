package models

import "time"

// Borrow record status values. "borrowed" -> "returned" is the only
// transition; a returned record is never reopened.
const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
)

type BorrowRecord struct {
	BorrowID   int64      `json:"borrow_id"`
	BookID     int64      `json:"book_id"`
	ReaderID   int64      `json:"reader_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
	Fine       float64    `json:"fine"`
}

// BorrowRecordView is the joined row served to listings: the record plus
// the book title and reader name it references.
type BorrowRecordView struct {
	BorrowRecord
	BookTitle  string `json:"book_title"`
	ReaderName string `json:"reader_name"`
}
