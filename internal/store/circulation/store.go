package circulation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/dbx"
)

// Store is the circulation transaction core: the sole writer of
// books.available_copies and of the return-related columns of
// borrow_records. Each Borrow/Return is one all-or-nothing transaction; the
// book row is locked for the duration, so concurrent operations on the same
// book serialize while unrelated books proceed independently.
type Store struct {
	db  *sql.DB
	rdb *redis.Client // optional; nil disables the records cache
}

func New(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{db: db, rdb: rdb}
}

// Borrow validates and applies a checkout: one new ledger row plus one
// decremented inventory counter, or neither. Validation order: book exists,
// reader exists, due date not before today, copies available.
func (s *Store) Borrow(ctx context.Context, bookID, readerID int64, dueDate time.Time) (models.BorrowRecord, error) {
	now := time.Now().UTC()

	var rec models.BorrowRecord
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		// Lock the book row up front so the availability check and the
		// decrement below observe the same committed value.
		var available int
		err := tx.QueryRowContext(ctx,
			`SELECT available_copies FROM books WHERE book_id = $1 FOR UPDATE`,
			bookID).Scan(&available)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("lock book: %w", err)
		}

		var readerExists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM readers WHERE reader_id = $1)`,
			readerID).Scan(&readerExists); err != nil {
			return fmt.Errorf("check reader: %w", err)
		}
		if !readerExists {
			return ErrReaderNotFound
		}

		if dayOf(dueDate).Before(dayOf(now)) {
			return ErrPastDueDate
		}
		if available <= 0 {
			return ErrNoCopies
		}

		rec = models.BorrowRecord{
			BookID:     bookID,
			ReaderID:   readerID,
			BorrowDate: now,
			DueDate:    dueDate,
			Status:     models.StatusBorrowed,
		}
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO borrow_records (book_id, reader_id, borrow_date, due_date, status, fine)
			VALUES ($1, $2, $3, $4, $5, 0)
			RETURNING borrow_id`,
			bookID, readerID, rec.BorrowDate, rec.DueDate, rec.Status,
		).Scan(&rec.BorrowID); err != nil {
			return fmt.Errorf("insert borrow record: %w", err)
		}

		// Conditional decrement re-validates against the live value even
		// though the row lock already serializes us.
		n, err := dbx.Exec(ctx, tx, `
			UPDATE books SET available_copies = available_copies - 1
			WHERE book_id = $1 AND available_copies > 0`, bookID)
		if err != nil {
			return fmt.Errorf("decrement copies: %w", err)
		}
		if n != 1 {
			return ErrNoCopies
		}
		return nil
	})
	if err != nil {
		return models.BorrowRecord{}, err
	}

	s.bumpRecordsVersion(ctx)
	return rec, nil
}

// Return closes an open borrow record and restores one copy to inventory,
// reporting the computed fine. A borrow ID that never existed and one that
// was already returned both fail with ErrRecordNotFound; the second return
// of the same ID therefore cannot double-increment the counter.
func (s *Store) Return(ctx context.Context, borrowID int64) (float64, error) {
	now := time.Now().UTC()

	var fine float64
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var bookID int64
		var dueDate time.Time
		err := tx.QueryRowContext(ctx, `
			SELECT book_id, due_date FROM borrow_records
			WHERE borrow_id = $1 AND return_date IS NULL
			FOR UPDATE`, borrowID).Scan(&bookID, &dueDate)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("lock borrow record: %w", err)
		}

		fine = FineFor(dueDate, now)

		if _, err := dbx.Exec(ctx, tx, `
			UPDATE borrow_records
			SET return_date = $2, status = $3, fine = $4
			WHERE borrow_id = $1`,
			borrowID, now, models.StatusReturned, fine); err != nil {
			return fmt.Errorf("close borrow record: %w", err)
		}

		if _, err := dbx.Exec(ctx, tx, `
			UPDATE books SET available_copies = available_copies + 1
			WHERE book_id = $1`, bookID); err != nil {
			return fmt.Errorf("increment copies: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.bumpRecordsVersion(ctx)
	return fine, nil
}
