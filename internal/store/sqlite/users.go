package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
)

// CreateUser inserts a user. Identity management proper lives outside this
// service; this exists for seeding and tests.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, login, first_name, last_name, middle_name)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Login,
		user.FirstName,
		user.LastName,
		user.MiddleName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflictf("login %q already taken", user.Login)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByLogin returns a user by login.
// Returns errors.ErrNotFound if the user does not exist.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, login, first_name, last_name, middle_name
		FROM users WHERE login = ?`, login).
		Scan(&u.ID, &u.Login, &u.FirstName, &u.LastName, &u.MiddleName)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return &u, nil
}

// GetUser returns a user by ID.
// Returns errors.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, login, first_name, last_name, middle_name
		FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Login, &u.FirstName, &u.LastName, &u.MiddleName)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
