package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("admin PIN required")
	ErrAdminDisabled = errors.New("admin access is not configured")
	ErrRateLimited   = errors.New("too many admin requests")

	ErrDuplicateRequest = errors.New("request already applied")
)
