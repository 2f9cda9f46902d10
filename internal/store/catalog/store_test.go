package catalog_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/catalog"
)

func bookRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"book_id", "isbn", "title", "author", "publisher",
		"publish_year", "category", "total_copies", "available_copies", "location",
	})
}

func TestGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := catalog.New(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT book_id, isbn, title, author, publisher, publish_year, category, total_copies, available_copies, location FROM books WHERE book_id = $1`,
	)).WithArgs(int64(1)).WillReturnRows(
		bookRows().AddRow(int64(1), "9787020002207", "Dream of the Red Chamber", "Cao Xueqin", "People's Literature", 1996, "Classics", 5, 3, "A-12"),
	)

	b, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Title != "Dream of the Red Chamber" || b.AvailableCopies != 3 {
		t.Fatalf("unexpected book: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGet_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := catalog.New(db)

	mock.ExpectQuery(`SELECT .+ FROM books WHERE book_id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(bookRows())

	_, err = store.Get(context.Background(), 42)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreate_AllCopiesAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := catalog.New(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO books (isbn, title, author, publisher, publish_year, category, total_copies, available_copies, location) VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8) RETURNING book_id`,
	)).WithArgs("9780141439518", "Pride and Prejudice", "Jane Austen", "Penguin", 2003, "Fiction", 4, "B-03").
		WillReturnRows(sqlmock.NewRows([]string{"book_id"}).AddRow(int64(9)))

	b, err := store.Create(context.Background(), models.Book{
		ISBN: "9780141439518", Title: "Pride and Prejudice", Author: "Jane Austen",
		Publisher: "Penguin", PublishYear: 2003, Category: "Fiction",
		TotalCopies: 4, Location: "B-03",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.BookID != 9 {
		t.Fatalf("want book_id=9, got %d", b.BookID)
	}
	if b.AvailableCopies != b.TotalCopies {
		t.Fatalf("new book must start with all copies available, got %d/%d", b.AvailableCopies, b.TotalCopies)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestList_FoldedSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := catalog.New(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COUNT(*) FROM books WHERE (lower(title) LIKE $1 OR lower(author) LIKE $1)`,
	)).WithArgs("%bronte%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT .+ FROM books WHERE .+ ORDER BY book_id LIMIT \$2 OFFSET \$3`).
		WithArgs("%bronte%", 20, 0).
		WillReturnRows(bookRows().AddRow(
			int64(3), "9780141441146", "Jane Eyre", "Charlotte Brontë", "Penguin", 2006, "Fiction", 2, 2, "B-07",
		))

	// Accent in the query folds to plain ASCII before it reaches SQL.
	books, total, err := store.List(context.Background(), catalog.ListFilter{Query: "Brontë", Limit: 20})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 1 || len(books) != 1 || books[0].Title != "Jane Eyre" {
		t.Fatalf("unexpected result: total=%d books=%+v", total, books)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
