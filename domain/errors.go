package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrForbidden will throw if the caller does not own the item
	ErrForbidden = errors.New("you do not have permission for this item")
	// ErrSelfVote will throw if a user votes on their own content
	ErrSelfVote = errors.New("cannot vote on your own content")
	// ErrCacheMiss will throw if the requested key is not in cache
	ErrCacheMiss = errors.New("requested key is not found in cache")
)
