package plantapi

import (
	apierrors "github.com/hydrovia/portal-gateway/internal/errors"
	"github.com/hydrovia/portal-gateway/session"
)

// LoginResponse is the typed shape of POST /user/login. Responses are
// validated at this boundary: a payload missing required fields is a
// decoding error, never an untyped blob handed to the session layer.
type LoginResponse struct {
	Identity       *session.Identity `json:"identity"`
	AuthToken      string            `json:"authToken"`
	TimeoutMinutes int               `json:"timeout_minutes"`
}

func (r *LoginResponse) validate() error {
	if r.Identity == nil || r.Identity.ID == "" {
		return apierrors.Wrapf(apierrors.ErrMalformedResponse, "login response missing identity")
	}
	if r.AuthToken == "" {
		return apierrors.Wrapf(apierrors.ErrMalformedResponse, "login response missing authToken")
	}
	return nil
}

// OTPResponse is the typed shape of POST /user/password-reset/otp: a
// one-time reset token exchanged for the final password change.
type OTPResponse struct {
	ResetToken string `json:"resetToken"`
}

func (r *OTPResponse) validate() error {
	if r.ResetToken == "" {
		return apierrors.Wrapf(apierrors.ErrMalformedResponse, "otp response missing resetToken")
	}
	return nil
}
