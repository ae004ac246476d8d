package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrSelfReferral       = errors.New("a user cannot redeem their own referral code")
	ErrCodeExhausted      = errors.New("could not allocate a unique referral code")
	ErrCatalogEmpty       = errors.New("offer catalog is empty")
	ErrInvalidExecContext = errors.New("invalid query execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
