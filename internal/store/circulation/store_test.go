package circulation_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/circulation"
)

const (
	lockBookQ    = `SELECT available_copies FROM books WHERE book_id = $1 FOR UPDATE`
	readerQ      = `SELECT EXISTS (SELECT 1 FROM readers WHERE reader_id = $1)`
	insertQ      = `INSERT INTO borrow_records (book_id, reader_id, borrow_date, due_date, status, fine) VALUES ($1, $2, $3, $4, $5, 0) RETURNING borrow_id`
	decrementQ   = `UPDATE books SET available_copies = available_copies - 1 WHERE book_id = $1 AND available_copies > 0`
	lockRecordQ  = `SELECT book_id, due_date FROM borrow_records WHERE borrow_id = $1 AND return_date IS NULL FOR UPDATE`
	closeRecordQ = `UPDATE borrow_records SET return_date = $2, status = $3, fine = $4 WHERE borrow_id = $1`
	incrementQ   = `UPDATE books SET available_copies = available_copies + 1 WHERE book_id = $1`
)

func newStore(t *testing.T) (*circulation.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return circulation.New(db, nil), mock
}

func futureDue() time.Time {
	return time.Now().UTC().AddDate(0, 0, 14)
}

func TestBorrow_Success(t *testing.T) {
	store, mock := newStore(t)
	due := futureDue()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockBookQ)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(readerQ)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(insertQ)).
		WithArgs(int64(1), int64(2), sqlmock.AnyArg(), due, models.StatusBorrowed).
		WillReturnRows(sqlmock.NewRows([]string{"borrow_id"}).AddRow(int64(7)))
	mock.ExpectExec(regexp.QuoteMeta(decrementQ)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := store.Borrow(context.Background(), 1, 2, due)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.BorrowID)
	assert.Equal(t, int64(1), rec.BookID)
	assert.Equal(t, int64(2), rec.ReaderID)
	assert.Equal(t, models.StatusBorrowed, rec.Status)
	assert.Nil(t, rec.ReturnDate)
	assert.Zero(t, rec.Fine)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_BookNotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockBookQ)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}))
	mock.ExpectRollback()

	_, err := store.Borrow(context.Background(), 99, 2, futureDue())
	assert.ErrorIs(t, err, circulation.ErrBookNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_ReaderNotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockBookQ)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(readerQ)).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := store.Borrow(context.Background(), 1, 55, futureDue())
	assert.ErrorIs(t, err, circulation.ErrReaderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_PastDueDate(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockBookQ)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(readerQ)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := store.Borrow(context.Background(), 1, 2, time.Now().UTC().AddDate(0, 0, -1))
	assert.ErrorIs(t, err, circulation.ErrPastDueDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_NoCopiesAvailable(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockBookQ)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(readerQ)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := store.Borrow(context.Background(), 1, 2, futureDue())
	assert.ErrorIs(t, err, circulation.ErrNoCopies)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent borrow consumed the last copy between our read and the
// conditional decrement: zero rows affected must abort the whole transaction
// so the ledger insert does not survive.
func TestBorrow_DecrementLosesRace(t *testing.T) {
	store, mock := newStore(t)
	due := futureDue()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockBookQ)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(readerQ)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(insertQ)).
		WithArgs(int64(1), int64(2), sqlmock.AnyArg(), due, models.StatusBorrowed).
		WillReturnRows(sqlmock.NewRows([]string{"borrow_id"}).AddRow(int64(8)))
	mock.ExpectExec(regexp.QuoteMeta(decrementQ)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.Borrow(context.Background(), 1, 2, due)
	assert.ErrorIs(t, err, circulation.ErrNoCopies)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_InsertFailureRollsBack(t *testing.T) {
	store, mock := newStore(t)
	due := futureDue()
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockBookQ)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_copies"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(readerQ)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(insertQ)).
		WithArgs(int64(1), int64(2), sqlmock.AnyArg(), due, models.StatusBorrowed).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := store.Borrow(context.Background(), 1, 2, due)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_OnTime(t *testing.T) {
	store, mock := newStore(t)
	due := time.Now().UTC().AddDate(0, 0, 7)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockRecordQ)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "due_date"}).AddRow(int64(1), due))
	mock.ExpectExec(regexp.QuoteMeta(closeRecordQ)).
		WithArgs(int64(7), sqlmock.AnyArg(), models.StatusReturned, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(incrementQ)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fine, err := store.Return(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, fine)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_Overdue(t *testing.T) {
	store, mock := newStore(t)
	due := time.Now().UTC().AddDate(0, 0, -5)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockRecordQ)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "due_date"}).AddRow(int64(1), due))
	mock.ExpectExec(regexp.QuoteMeta(closeRecordQ)).
		WithArgs(int64(7), sqlmock.AnyArg(), models.StatusReturned, 2.5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(incrementQ)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fine, err := store.Return(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2.5, fine)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Second return of the same borrow ID: the open-record lookup matches no row
// (return_date is already set), so nothing is mutated and the counter cannot
// be incremented twice.
func TestReturn_AlreadyReturned(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockRecordQ)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "due_date"}))
	mock.ExpectRollback()

	_, err := store.Return(context.Background(), 7)
	assert.ErrorIs(t, err, circulation.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_IncrementFailureRollsBack(t *testing.T) {
	store, mock := newStore(t)
	due := time.Now().UTC().AddDate(0, 0, 3)
	boom := errors.New("lock timeout")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockRecordQ)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "due_date"}).AddRow(int64(1), due))
	mock.ExpectExec(regexp.QuoteMeta(closeRecordQ)).
		WithArgs(int64(7), sqlmock.AnyArg(), models.StatusReturned, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(incrementQ)).
		WithArgs(int64(1)).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := store.Return(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
