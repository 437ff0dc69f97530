package plantapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	apierrors "github.com/hydrovia/portal-gateway/internal/errors"
)

// Client wraps the external plant API. Every call is fire-once: no retries,
// no backoff, no caching of failed attempts. Failures propagate to the
// caller, which owns surfacing them.
type Client struct {
	rest    *resty.Client
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// WithTimeout bounds each outbound request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.rest.SetTimeout(d)
	}
}

func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("[plantapi.NewClient] base URL is required")
	}

	c := &Client{
		rest: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an identity, bearer token and TTL. When
// the server omits timeout_minutes, the TTL falls back to the token's exp
// claim.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: email, Password: password}).
		SetResult(&out).
		Post("/user/login")
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login] POST /user/login")
	}
	if resp.IsError() {
		return nil, apierrors.Wrapf(apierrors.ErrInvalidCredentials, "[Client.Login] status %d", resp.StatusCode())
	}
	if err := out.validate(); err != nil {
		return nil, err
	}

	if out.TimeoutMinutes <= 0 {
		ttl, err := tokenTTLMinutes(out.AuthToken, c.nowTime())
		if err != nil {
			return nil, errors.Wrap(err, "[Client.Login] no timeout_minutes and no usable exp claim")
		}
		out.TimeoutMinutes = ttl
	}
	return &out, nil
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword changes the password of the authenticated operator.
func (c *Client) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(passwordChangeRequest{CurrentPassword: currentPassword, NewPassword: newPassword}).
		Post("/user/password-change")
	if err != nil {
		return errors.Wrap(err, "[Client.ChangePassword] POST /user/password-change")
	}
	if resp.IsError() {
		return apierrors.Wrapf(apierrors.ErrRequestRejected, "[Client.ChangePassword] status %d", resp.StatusCode())
	}
	return nil
}

// RequestPasswordReset starts the reset flow for the given email. The plant
// API delivers the OTP out of band.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email}).
		Post("/user/password-reset")
	if err != nil {
		return errors.Wrap(err, "[Client.RequestPasswordReset] POST /user/password-reset")
	}
	if resp.IsError() {
		return apierrors.Wrapf(apierrors.ErrRequestRejected, "[Client.RequestPasswordReset] status %d", resp.StatusCode())
	}
	return nil
}

// VerifyResetOTP exchanges the out-of-band OTP for a reset token.
func (c *Client) VerifyResetOTP(ctx context.Context, email, otp string) (string, error) {
	var out OTPResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "otp": otp}).
		SetResult(&out).
		Post("/user/password-reset/otp")
	if err != nil {
		return "", errors.Wrap(err, "[Client.VerifyResetOTP] POST /user/password-reset/otp")
	}
	if resp.IsError() {
		return "", apierrors.Wrapf(apierrors.ErrRequestRejected, "[Client.VerifyResetOTP] status %d", resp.StatusCode())
	}
	if err := out.validate(); err != nil {
		return "", err
	}
	return out.ResetToken, nil
}

// CompletePasswordReset finishes the reset flow with the token from
// VerifyResetOTP.
func (c *Client) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"resetToken": resetToken, "newPassword": newPassword}).
		Post("/user/password-reset/token")
	if err != nil {
		return errors.Wrap(err, "[Client.CompletePasswordReset] POST /user/password-reset/token")
	}
	if resp.IsError() {
		return apierrors.Wrapf(apierrors.ErrRequestRejected, "[Client.CompletePasswordReset] status %d", resp.StatusCode())
	}
	return nil
}

// ChangeUserStatus is the administrative status change for another user.
func (c *Client) ChangeUserStatus(ctx context.Context, token, userID, status string) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("[Client.ChangeUserStatus] user id is required")
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post(fmt.Sprintf("/user/status-change/%s/%s", userID, status))
	if err != nil {
		return errors.Wrap(err, "[Client.ChangeUserStatus] POST /user/status-change")
	}
	if resp.IsError() {
		return apierrors.Wrapf(apierrors.ErrRequestRejected, "[Client.ChangeUserStatus] status %d", resp.StatusCode())
	}
	return nil
}

// tokenTTLMinutes derives a TTL from the unverified exp claim of a JWT
// bearer token. Verification belongs to the server that issued the token;
// the portal only needs the expiry horizon.
func tokenTTLMinutes(rawToken string, now time.Time) (int, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return 0, errors.Wrap(err, "parse bearer token")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, errors.New("bearer token has no exp claim")
	}

	remaining := exp.Sub(now)
	if remaining <= 0 {
		return 0, errors.New("bearer token already expired")
	}

	minutes := int(remaining / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes, nil
}
