package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTokenInvalid       = errors.New("reset token is invalid or already used")
	ErrTokenExpired       = errors.New("reset token has expired")
)
