package repository

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already in use")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryInUse        = errors.New("category is referenced by competitions")
	ErrCompetitionNotFound  = errors.New("competition not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("already registered for this competition")
	ErrAlreadyApproved      = errors.New("registration already approved")
)
