package invitations

import "errors"

// Callers map these to status codes. Causes are wrapped with %w, so both the
// sentinel and the underlying error match errors.Is.
var (
	ErrBadRequest       = errors.New("invitations: bad request")
	ErrUnauthorized     = errors.New("invitations: unauthorized")
	ErrInvalidOrExpired = errors.New("invitations: invalid or expired invitation")
	ErrCreationFailed   = errors.New("invitations: creation failed")
	ErrInternal         = errors.New("invitations: internal error")
)
