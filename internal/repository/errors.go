package repository

import "errors"

var (
	ErrCacheMiss         = errors.New("cache miss")
	ErrDuplicateDocument = errors.New("document already exists")
)
