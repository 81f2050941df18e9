package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrAlreadySupport     = errors.New("user is already a support member")
)
