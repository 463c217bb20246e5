package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"masterboxer.com/project-social-backend/models"
)

// MemoryStore keeps users and posts in process memory. It is meant for local
// runs and tests; records are copied in and out so callers never share state.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	postIndex map[string]int
	posts     []*models.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     map[string]*models.User{},
		postIndex: map[string]int{},
	}
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	c.Friends = append([]string{}, u.Friends...)
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Likes = make(models.Likes, len(p.Likes))
	for k, v := range p.Likes {
		c.Likes[k] = v
	}
	c.Comments = append(models.Comments{}, p.Comments...)
	return &c
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email %q", ErrDuplicateKey, u.Email)
		}
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Normalize()
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) UpdateFriends(_ context.Context, id string, friends []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateFriendsLocked(id, friends)
}

// UpdateFriendPair writes both lists under one lock, or neither.
func (s *MemoryStore) UpdateFriendPair(_ context.Context, a, b *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[a.ID]; !ok {
		return models.ErrNotFound
	}
	if _, ok := s.users[b.ID]; !ok {
		return models.ErrNotFound
	}
	_ = s.updateFriendsLocked(a.ID, a.Friends)
	return s.updateFriendsLocked(b.ID, b.Friends)
}

func (s *MemoryStore) updateFriendsLocked(id string, friends []string) error {
	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Friends = append([]string{}, friends...)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) CreatePost(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Normalize()
	s.postIndex[p.ID] = len(s.posts)
	s.posts = append(s.posts, copyPost(p))
	return nil
}

func (s *MemoryStore) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.postIndex[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyPost(s.posts[i]), nil
}

func (s *MemoryStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.filterPosts(func(*models.Post) bool { return true }), nil
}

func (s *MemoryStore) ListPostsByUser(_ context.Context, userID string) ([]models.Post, error) {
	return s.filterPosts(func(p *models.Post) bool { return p.UserID == userID }), nil
}

func (s *MemoryStore) filterPosts(keep func(*models.Post) bool) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, *copyPost(p))
		}
	}
	return out
}

func (s *MemoryStore) UpdateLikes(_ context.Context, id string, likes models.Likes) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.postIndex[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p := s.posts[i]
	p.Likes = make(models.Likes, len(likes))
	for k, v := range likes {
		p.Likes[k] = v
	}
	p.UpdatedAt = time.Now().UTC()
	return copyPost(p), nil
}
