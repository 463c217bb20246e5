package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"masterboxer.com/project-social-backend/models"
)

const userColumns = `id, first_name, last_name, email, password, picture_path,
	friends, location, occupation, viewed_profile, impressions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.PicturePath,
		pq.Array(&u.Friends), &u.Location, &u.Occupation, &u.ViewedProfile, &u.Impressions,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Normalize()
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = uuid.NewString()
	if u.Friends == nil {
		u.Friends = []string{}
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password, picture_path,
			friends, location, occupation, viewed_profile, impressions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Password, u.PicturePath,
		pq.Array(u.Friends), u.Location, u.Occupation, u.ViewedProfile, u.Impressions,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) UpdateFriends(ctx context.Context, id string, friends []string) error {
	return updateFriends(ctx, s.db, id, friends)
}

// UpdateFriendPair writes both friend lists in a single transaction.
func (s *PostgresStore) UpdateFriendPair(ctx context.Context, a, b *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := updateFriends(ctx, tx, a.ID, a.Friends); err != nil {
		return err
	}
	if err := updateFriends(ctx, tx, b.ID, b.Friends); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func updateFriends(ctx context.Context, db execer, id string, friends []string) error {
	if friends == nil {
		friends = []string{}
	}
	result, err := db.ExecContext(ctx,
		`UPDATE users SET friends = $1, updated_at = NOW() WHERE id = $2`,
		pq.Array(friends), id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
