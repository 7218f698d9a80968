package users

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfSubscription   = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed  = errors.New("already subscribed")
	ErrNotSubscribed      = errors.New("not subscribed")
	ErrAvatarNotSet       = errors.New("avatar is not set")
	ErrInvalidRecipeLimit = errors.New("recipes_limit must be a non-negative integer")
)
