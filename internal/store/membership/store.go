package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/store/dbx"
)

var ErrNotFound = errors.New("reader not found")

// Store holds Reader records. The circulation core only ever asks it
// whether a reader exists.
type Store struct{ db dbx.DB }

func New(db dbx.DB) *Store { return &Store{db: db} }

const readerColumns = `reader_id, name, gender, phone, email, address, register_date, status`

func (s *Store) List(ctx context.Context, limit, offset int) ([]models.Reader, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count readers: %w", err)
	}

	q := strings.Join(strings.Fields(`
		SELECT `+readerColumns+` FROM readers
		ORDER BY reader_id LIMIT $1 OFFSET $2`), " ")
	rows, err := s.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list readers: %w", err)
	}
	defer rows.Close()

	out := []models.Reader{}
	for rows.Next() {
		var r models.Reader
		if err := rows.Scan(&r.ReaderID, &r.Name, &r.Gender, &r.Phone, &r.Email, &r.Address, &r.RegisterDate, &r.Status); err != nil {
			return nil, 0, fmt.Errorf("scan reader: %w", err)
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (models.Reader, error) {
	var r models.Reader
	err := s.db.QueryRowContext(ctx,
		`SELECT `+readerColumns+` FROM readers WHERE reader_id = $1`, id,
	).Scan(&r.ReaderID, &r.Name, &r.Gender, &r.Phone, &r.Email, &r.Address, &r.RegisterDate, &r.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reader{}, ErrNotFound
	}
	if err != nil {
		return models.Reader{}, fmt.Errorf("get reader: %w", err)
	}
	return r, nil
}

// Create registers a reader; register_date and status default in the
// database (now() and 'active').
func (s *Store) Create(ctx context.Context, r models.Reader) (models.Reader, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO readers (name, gender, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING reader_id, register_date, status`,
		r.Name, r.Gender, r.Phone, r.Email, r.Address,
	).Scan(&r.ReaderID, &r.RegisterDate, &r.Status)
	if err != nil {
		return models.Reader{}, fmt.Errorf("create reader: %w", err)
	}
	return r, nil
}
