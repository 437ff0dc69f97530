package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hydrovia/portal-gateway/auth"
	apierrors "github.com/hydrovia/portal-gateway/internal/errors"
	"github.com/hydrovia/portal-gateway/internal/utils"
	"github.com/hydrovia/portal-gateway/session"
)

// sessionView is the read model the portal UI polls: current identity,
// expiry, the transient loading flag and the expired-session dialog state.
type sessionView struct {
	Authenticated bool              `json:"authenticated"`
	Loading       bool              `json:"loading"`
	Identity      *session.Identity `json:"identity,omitempty"`
	Role          string            `json:"role,omitempty"`
	ExpiresAt     *time.Time        `json:"expiresAt,omitempty"`
	DialogOpen    bool              `json:"dialogOpen"`
	DialogReason  string            `json:"dialogReason,omitempty"`
}

func (s *Server) currentSessionView() sessionView {
	view := sessionView{
		Loading:      s.auth.Loading(),
		DialogOpen:   s.notifier.DialogOpen(),
		DialogReason: s.notifier.Reason(),
	}
	if sess, ok := s.auth.Session(); ok && sess.Valid() {
		view.Authenticated = true
		view.Identity = sess.Identity
		view.Role = sess.Role
		view.ExpiresAt = utils.Ptr(sess.ExpiresAt)
	}
	return view
}

type loginSubmission struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginSubmissionHandler exchanges credentials with the plant API and opens
// the local session. Network and credential failures are surfaced to the
// caller as-is; nothing here retries.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginSubmission
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if in.Email == "" || in.Password == "" {
			respondError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		resp, err := s.api.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			if apierrors.Is(err, apierrors.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			log.Err(err).Msg("login exchange failed")
			respondError(w, http.StatusBadGateway, "login failed")
			return
		}

		if err := s.auth.Login(resp.Identity, resp.AuthToken, resp.TimeoutMinutes); err != nil {
			log.Err(err).Msg("failed to open session")
			respondError(w, http.StatusInternalServerError, "failed to open session")
			return
		}

		respondJSON(w, http.StatusOK, s.currentSessionView())
	}
}

// LogoutHandler closes the session on explicit operator action. Idempotent:
// logging out while logged out is still a 204.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout("user"); err != nil {
			log.Err(err).Msg("logout failed to clear persisted session")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type refreshSubmission struct {
	Token string `json:"token"`
}

// RefreshHandler records a silently refreshed bearer token. Only the token
// changes; identity and expiry stay as the original login set them.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in refreshSubmission
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.auth.SetHeader(in.Token); err != nil {
			switch err {
			case auth.EmptyTokenErr:
				respondError(w, http.StatusBadRequest, err.Error())
			case auth.NoSessionErr:
				respondError(w, http.StatusUnauthorized, err.Error())
			default:
				respondError(w, http.StatusInternalServerError, "failed to store refreshed token")
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SessionHandler reports the current session state, including the
// expired-session dialog flag the UI renders.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.currentSessionView())
	}
}

// SessionAckHandler closes the expired-session dialog. This acknowledgment
// is the point at which the UI is consistent with the logged-out state.
func (s *Server) SessionAckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.notifier.Acknowledge()
		w.WriteHeader(http.StatusNoContent)
	}
}

type passwordChangeSubmission struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePasswordHandler proxies a password change for the signed-in
// operator. An already-expired token pre-empts the doomed call.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.auth.IsTokenExpired() {
			respondError(w, http.StatusUnauthorized, "session expired")
			return
		}

		var in passwordChangeSubmission
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.api.ChangePassword(r.Context(), s.auth.Token(), in.CurrentPassword, in.NewPassword); err != nil {
			if apierrors.Is(err, apierrors.ErrWeakPassword) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Err(err).Msg("password change failed")
			respondError(w, http.StatusBadGateway, "password change failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ForgotPasswordHandler starts the reset flow; the OTP goes out of band.
func (s *Server) ForgotPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" {
			respondError(w, http.StatusBadRequest, "email is required")
			return
		}
		if err := s.api.RequestPasswordReset(r.Context(), in.Email); err != nil {
			log.Err(err).Msg("password reset request failed")
			respondError(w, http.StatusBadGateway, "password reset request failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ResetOTPHandler exchanges the OTP for a reset token.
func (s *Server) ResetOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email string `json:"email"`
			OTP   string `json:"otp"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.OTP == "" {
			respondError(w, http.StatusBadRequest, "email and otp are required")
			return
		}
		resetToken, err := s.api.VerifyResetOTP(r.Context(), in.Email, in.OTP)
		if err != nil {
			log.Err(err).Msg("otp verification failed")
			respondError(w, http.StatusBadGateway, "otp verification failed")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"resetToken": resetToken})
	}
}

// ResetCompleteHandler finishes the reset flow with the token from the OTP
// exchange.
func (s *Server) ResetCompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ResetToken  string `json:"resetToken"`
			NewPassword string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ResetToken == "" {
			respondError(w, http.StatusBadRequest, "resetToken and newPassword are required")
			return
		}
		if err := s.api.CompletePasswordReset(r.Context(), in.ResetToken, in.NewPassword); err != nil {
			if apierrors.Is(err, apierrors.ErrWeakPassword) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Err(err).Msg("password reset failed")
			respondError(w, http.StatusBadGateway, "password reset failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UserStatusChangeHandler is the administrative status change, proxied with
// the operator's own token.
func (s *Server) UserStatusChangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		status := r.PathValue("status")

		if err := s.api.ChangeUserStatus(r.Context(), s.auth.Token(), userID, status); err != nil {
			if apierrors.Is(err, apierrors.ErrInvalidStatus) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Err(err).Msg("status change failed")
			respondError(w, http.StatusBadGateway, "status change failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DashboardHandler is the authenticated landing route.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := r.Context().Value(ContextKeySession).(session.Session)
		respondJSON(w, http.StatusOK, map[string]any{
			"app":  s.config.GetAppName(),
			"user": utils.Value(sess.Identity),
		})
	}
}

// LoginPageHandler is the anonymous entry point.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"app":   s.config.GetAppName(),
			"login": RouteAuthLogin,
		})
	}
}
