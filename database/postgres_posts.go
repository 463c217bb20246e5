package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"masterboxer.com/project-social-backend/models"
)

const postColumns = `id, user_id, first_name, last_name, location, description, picture_path,
	user_picture_path, likes, comments, created_at, updated_at`

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Location, &p.Description,
		&p.PicturePath, &p.UserPicturePath, &p.Likes, &p.Comments, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, p *models.Post) error {
	p.ID = uuid.NewString()
	p.Normalize()

	return s.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, user_id, first_name, last_name, location, description,
			picture_path, user_picture_path, likes, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Location, p.Description,
		p.PicturePath, p.UserPicturePath, p.Likes, p.Comments,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY seq`)
}

func (s *PostgresStore) ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE user_id = $1 ORDER BY seq`, userID)
}

func (s *PostgresStore) UpdateLikes(ctx context.Context, id string, likes models.Likes) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET likes = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+postColumns,
		likes, id)
	return scanPost(row)
}

func (s *PostgresStore) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
