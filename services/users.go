package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"masterboxer.com/project-social-backend/metrics"
	"masterboxer.com/project-social-backend/models"
)

const friendLookupConcurrency = 8

// UserService reads profiles and maintains friend lists.
type UserService struct {
	users  UserStore
	atomic bool
}

// NewUserService returns a user service. With atomicFriends set, friend toggles
// are written in one transaction when the store supports it.
func NewUserService(users UserStore, atomicFriends bool) *UserService {
	return &UserService{users: users, atomic: atomicFriends}
}

// GetUser returns nil without error when the user does not exist.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return u, nil
}

// GetFriends resolves the friend list in order. Ids that no longer resolve
// leave a nil entry at their position.
func (s *UserService) GetFriends(ctx context.Context, id string) ([]*models.FriendSummary, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	friends := make([]*models.FriendSummary, len(u.Friends))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(friendLookupConcurrency)
	for i, friendID := range u.Friends {
		g.Go(func() error {
			f, err := s.users.GetUserByID(gctx, friendID)
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load friend %s: %w", friendID, err)
			}
			friends[i] = f.Summary()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return friends, nil
}

// ToggleFriend adds or removes the friendship between id and friendID on both
// records. The two writes are independent unless atomic mode is on: a failed
// second write leaves the relationship one-sided.
func (s *UserService) ToggleFriend(ctx context.Context, id, friendID string) error {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return err
	}
	friend, err := s.loadUser(ctx, friendID)
	if err != nil {
		return err
	}

	added := !user.HasFriend(friendID)
	if added {
		user.AddFriend(friendID)
		friend.AddFriend(id)
	} else {
		user.RemoveFriend(friendID)
		friend.RemoveFriend(id)
	}

	if err := s.saveFriends(ctx, user, friend); err != nil {
		return err
	}

	metrics.RecordFriendToggle(added)
	log.WithFields(log.Fields{
		"user_id":   id,
		"friend_id": friendID,
		"added":     added,
	}).Debug("friend toggled")
	return nil
}

func (s *UserService) saveFriends(ctx context.Context, user, friend *models.User) error {
	if s.atomic {
		if tx, ok := s.users.(FriendPairUpdater); ok {
			if err := tx.UpdateFriendPair(ctx, user, friend); err != nil {
				return fmt.Errorf("update friend pair: %w", err)
			}
			return nil
		}
		log.Warn("store does not support transactional friend updates, writing each side separately")
	}

	if err := s.users.UpdateFriends(ctx, user.ID, user.Friends); err != nil {
		return fmt.Errorf("update friends of %s: %w", user.ID, err)
	}
	if err := s.users.UpdateFriends(ctx, friend.ID, friend.Friends); err != nil {
		return fmt.Errorf("update friends of %s: %w", friend.ID, err)
	}
	return nil
}

func (s *UserService) loadUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, err
}
