package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/metrics"
	"masterboxer.com/project-social-backend/models"
)

type CreatePostInput struct {
	UserID      string
	Description string
	PicturePath string
}

// PostService creates posts and toggles likes.
type PostService struct {
	posts PostStore
	users UserStore
}

func NewPostService(posts PostStore, users UserStore) *PostService {
	return &PostService{posts: posts, users: users}
}

// CreatePost stores a post for the author and returns every post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) ([]models.Post, error) {
	author, err := s.users.GetUserByID(ctx, in.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	p := models.NewPost(author, in.Description, in.PicturePath)
	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	log.WithFields(log.Fields{"post_id": p.ID, "user_id": p.UserID}).Info("post created")

	return s.posts.ListPosts(ctx)
}

func (s *PostService) GetFeedPosts(ctx context.Context) ([]models.Post, error) {
	return s.posts.ListPosts(ctx)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	return s.posts.ListPostsByUser(ctx, userID)
}

// ToggleLike likes the post for userID, or unlikes it if already liked.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	p, err := s.posts.GetPostByID(ctx, postID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.Likes == nil {
		p.Likes = models.Likes{}
	}
	liked := p.Likes.Toggle(userID)

	updated, err := s.posts.UpdateLikes(ctx, postID, p.Likes)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update likes: %w", err)
	}

	metrics.RecordLikeToggle(liked)
	return updated, nil
}
