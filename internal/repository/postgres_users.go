package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/asleulv/vervekart/internal/domain"
)

// PostgresUsersRepository implements UsersRepository on PostgreSQL.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

// RegisterUser inserts the user unless the name is already taken, then reads
// the row back. The UNIQUE constraint on name makes repeat registrations
// return the original id.
func (r *PostgresUsersRepository) RegisterUser(ctx context.Context, name, email string) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		name, email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	var user domain.User
	var userEmail sql.NullString
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE name = $1`,
		name,
	).Scan(&user.ID, &user.Name, &userEmail, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.Email = userEmail.String

	return &user, nil
}
