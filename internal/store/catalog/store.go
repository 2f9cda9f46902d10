package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/dbx"
	"github.com/openshelf/library-api/internal/store/shared"
)

var ErrNotFound = errors.New("book not found")

// Store holds Book records and their copy counts. It never touches
// available_copies after creation; that column belongs to the circulation
// store.
type Store struct{ db dbx.DB }

func New(db dbx.DB) *Store { return &Store{db: db} }

type ListFilter struct {
	Query    string // matched against title and author, accent-folded
	Category string
	Limit    int
	Offset   int
}

const bookColumns = `book_id, isbn, title, author, publisher, publish_year, category, total_copies, available_copies, location`

func buildListWhere(f ListFilter) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if f.Query != "" {
		args = append(args, "%"+shared.Fold(f.Query)+"%")
		clauses = append(clauses, fmt.Sprintf("(lower(title) LIKE $%d OR lower(author) LIKE $%d)", len(args), len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Book, int, error) {
	where, args := buildListWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx,
		strings.TrimSpace("SELECT COUNT(*) FROM books "+where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	q := fmt.Sprintf(
		"SELECT %s FROM books %s ORDER BY book_id LIMIT $%d OFFSET $%d",
		bookColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := s.db.QueryContext(ctx, strings.Join(strings.Fields(q), " "), append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := scanBook(rows.Scan, &b); err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (models.Book, error) {
	var b models.Book
	err := scanBook(s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE book_id = $1`, id).Scan, &b)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// Create inserts a catalog entry with all copies available.
func (s *Store) Create(ctx context.Context, b models.Book) (models.Book, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO books (isbn, title, author, publisher, publish_year, category, total_copies, available_copies, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8)
		RETURNING book_id`,
		b.ISBN, b.Title, b.Author, b.Publisher, b.PublishYear, b.Category, b.TotalCopies, b.Location,
	).Scan(&b.BookID)
	if err != nil {
		return models.Book{}, fmt.Errorf("create book: %w", err)
	}
	b.AvailableCopies = b.TotalCopies
	return b, nil
}

func scanBook(scan func(dest ...any) error, b *models.Book) error {
	return scan(
		&b.BookID, &b.ISBN, &b.Title, &b.Author, &b.Publisher,
		&b.PublishYear, &b.Category, &b.TotalCopies, &b.AvailableCopies, &b.Location,
	)
}
