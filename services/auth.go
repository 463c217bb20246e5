package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/metrics"
	"masterboxer.com/project-social-backend/models"
)

const (
	maxViewedProfileSeed = 500
	maxImpressionsSeed   = 900
)

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PicturePath string
	Friends     []string
	Location    string
	Occupation  string
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenService
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register stores a new user. The returned record still carries the password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.RecordRegistration(false)
		return nil, err
	}

	friends := in.Friends
	if friends == nil {
		friends = []string{}
	}

	u := &models.User{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Password:      digest,
		PicturePath:   in.PicturePath,
		Friends:       friends,
		Location:      in.Location,
		Occupation:    in.Occupation,
		ViewedProfile: rand.IntN(maxViewedProfileSeed),
		Impressions:   rand.IntN(maxImpressionsSeed),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		metrics.RecordRegistration(false)
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordRegistration(true)
	log.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		metrics.RecordLogin("unknown_user")
		return nil, ErrUserDoesNotExist
	}
	if err != nil {
		metrics.RecordLogin("error")
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.Password)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}
	if !ok {
		metrics.RecordLogin("bad_password")
		return nil, ErrInvalidPassword
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}

	u.Password = ""
	metrics.RecordLogin("success")
	return &LoginResult{Token: token, User: u}, nil
}
