package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

// Users implements the identity store over the users table.
type Users struct {
	db *sql.DB
}

const userColumns = `id, username, email, password, created_at`

func scanUser(row scanner) (models.User, error) {
	var (
		u  models.User
		id int64
	)
	if err := row.Scan(&id, &u.Username, &u.Email, &u.Password, &u.CreatedAt); err != nil {
		return models.User{}, err
	}
	u.ID = formatID(id)
	return u, nil
}

func (s *Users) findOne(ctx context.Context, where string, arg any) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = ?`, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, errs.ErrUserNotFound
	}
	return u, err
}

// FindByID loads a user by id.
func (s *Users) FindByID(ctx context.Context, id string) (models.User, error) {
	n, ok := parseID(id)
	if !ok {
		return models.User{}, errs.ErrUserNotFound
	}
	return s.findOne(ctx, "id", n)
}

// FindByUsername loads a user by exact username.
func (s *Users) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, "username", username)
}

// FindByEmail loads a user by exact email.
func (s *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "email", email)
}

// Create inserts u and returns it with its assigned id.
func (s *Users) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.Password, u.CreatedAt)
	switch {
	case isUnique(err, "users.username"):
		return models.User{}, errs.ErrUsernameTaken
	case isUnique(err, "users.email"):
		return models.User{}, errs.ErrEmailTaken
	case err != nil:
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = formatID(id)
	return u, nil
}

// ListAll returns every user in creation order.
func (s *Users) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteAll removes every user. Association rows go with them through the
// foreign key cascade.
func (s *Users) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, fmt.Errorf("delete users: %w", err)
	}
	return res.RowsAffected()
}
