package auth

import (
	"context"

	"github.com/openshelf/library-api/internal/store/dbx"
)

type SQLStore struct {
	DB dbx.Getter
}

func NewSQLStore(db dbx.Getter) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) FindByEmail(email string) (Staff, error) {
	const q = `
		SELECT staff_id::text, email, password_hash, role, created_at
		FROM staff
		WHERE email = $1
		LIMIT 1;
	`
	var st Staff
	err := s.DB.QueryRowContext(context.Background(), q, email).Scan(
		&st.ID, &st.Email, &st.PasswordHash, &st.Role, &st.CreatedAt,
	)
	return st, err
}
