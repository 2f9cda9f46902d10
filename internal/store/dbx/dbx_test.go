package dbx_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/openshelf/library-api/internal/store/dbx"
)

const touchQ = `UPDATE books SET location = $1 WHERE book_id = $2`

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(touchQ)).WithArgs("B2-07", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = dbx.WithinTx(context.Background(), db, func(tx *sql.Tx) error {
		n, err := dbx.Exec(context.Background(), tx, touchQ, "B2-07", int64(1))
		if err != nil {
			return err
		}
		if n != 1 {
			t.Errorf("expected 1 row affected, got %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("shelf mismatch")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = dbx.WithinTx(context.Background(), db, func(tx *sql.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestExec_PropagatesStatementError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(touchQ)).WillReturnError(errors.New("down"))

	if _, err := dbx.Exec(context.Background(), db, touchQ, "B2-07", int64(1)); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
