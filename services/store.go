package services

import (
	"context"

	"masterboxer.com/project-social-backend/models"
)

// UserStore persists user records. Lookups return models.ErrNotFound when
// nothing matches.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFriends(ctx context.Context, id string, friends []string) error
}

// FriendPairUpdater is implemented by stores that can write both sides of a
// friend toggle in one transaction.
type FriendPairUpdater interface {
	UpdateFriendPair(ctx context.Context, a *models.User, b *models.User) error
}

// PostStore persists post records. Listings are in insertion order.
type PostStore interface {
	CreatePost(ctx context.Context, p *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error)
	UpdateLikes(ctx context.Context, id string, likes models.Likes) (*models.Post, error)
}
