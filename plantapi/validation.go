package plantapi

import (
	"unicode"

	apierrors "github.com/hydrovia/portal-gateway/internal/errors"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var allowedStatuses = map[string]struct{}{
	"active":    {},
	"suspended": {},
	"disabled":  {},
}

// ValidatePassword enforces the local password policy before a change or
// reset call is sent. The plant API has the final say; this just catches
// obvious rejects without a round trip.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return apierrors.Wrapf(apierrors.ErrWeakPassword, "length must be between %d and %d", minPasswordLength, maxPasswordLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apierrors.Wrapf(apierrors.ErrWeakPassword, "needs upper, lower and digit characters")
	}
	return nil
}

// ValidateStatus checks a status-change target against the values the
// plant API accepts.
func ValidateStatus(status string) error {
	if _, ok := allowedStatuses[status]; !ok {
		return apierrors.Wrapf(apierrors.ErrInvalidStatus, "%q", status)
	}
	return nil
}
