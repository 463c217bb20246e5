package services

import "errors"

var (
	ErrUserDoesNotExist = errors.New("User does not exist")
	ErrInvalidPassword  = errors.New("Invalid Password")

	ErrMissingToken = errors.New("Access Denied")
	ErrInvalidToken = errors.New("invalid token")

	ErrUserNotFound   = errors.New("user not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrPostNotFound   = errors.New("post not found")
)

// IsInvalidCredentials reports whether err is a login failure the client caused.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrUserDoesNotExist) || errors.Is(err, ErrInvalidPassword)
}
