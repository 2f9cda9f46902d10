package circulation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openshelf/library-api/internal/models"
)

// ListRecords serves the joined borrow-record view (record plus book title
// and reader name), newest first. Results pass through the redis cache when
// one is configured; the cache version is bumped after every committed
// Borrow/Return. If the bump itself fails the stale generation can survive
// until its TTL expires, which the 5 minute cacheTTL bounds.
func (s *Store) ListRecords(ctx context.Context) ([]models.BorrowRecordView, error) {
	if out, ok := s.cachedRecords(ctx); ok {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT br.borrow_id, br.book_id, br.reader_id, br.borrow_date,
		       br.due_date, br.return_date, br.status, br.fine,
		       b.title, r.name
		FROM borrow_records br
		JOIN books b ON b.book_id = br.book_id
		JOIN readers r ON r.reader_id = br.reader_id
		ORDER BY br.borrow_date DESC, br.borrow_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list borrow records: %w", err)
	}
	defer rows.Close()

	out := []models.BorrowRecordView{}
	for rows.Next() {
		var v models.BorrowRecordView
		var returned sql.NullTime
		if err := rows.Scan(
			&v.BorrowID, &v.BookID, &v.ReaderID, &v.BorrowDate,
			&v.DueDate, &returned, &v.Status, &v.Fine,
			&v.BookTitle, &v.ReaderName,
		); err != nil {
			return nil, fmt.Errorf("scan borrow record: %w", err)
		}
		if returned.Valid {
			t := returned.Time
			v.ReturnDate = &t
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list borrow records: %w", err)
	}

	s.storeRecords(ctx, out)
	return out, nil
}
