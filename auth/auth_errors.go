package auth

import "errors"

var (
	PartialSessionErr = errors.New("partial session: identity and token are both required")
	InvalidTTLErr     = errors.New("session ttl must be positive")
	NoSessionErr      = errors.New("no active session")
	EmptyTokenErr     = errors.New("empty bearer token")
)
