package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrNumericPassword    = errors.New("password is entirely numeric")
)
