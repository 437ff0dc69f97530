package plantapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apierrors "github.com/hydrovia/portal-gateway/internal/errors"
	"github.com/hydrovia/portal-gateway/plantapi"
)

const (
	testEmail    = "jane@plant.example"
	testPassword = "Sup3rSecret!"
)

func loginPayload(timeoutMinutes int, token string) map[string]any {
	return map[string]any{
		"identity": map[string]string{
			"id":    "user-1",
			"name":  "Jane Operator",
			"email": testEmail,
			"role":  "operator",
		},
		"authToken":       token,
		"timeout_minutes": timeoutMinutes,
	}
}

func TestLoginDecodesTypedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/login", r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, testEmail, in["email"])
		require.Equal(t, testPassword, in["password"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginPayload(30, "bearer-token-a"))
	}))
	defer ts.Close()

	client, err := plantapi.NewClient(ts.URL)
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, "bearer-token-a", resp.AuthToken)
	require.Equal(t, 30, resp.TimeoutMinutes)
	require.Equal(t, "user-1", resp.Identity.ID)
	require.Equal(t, "operator", resp.Identity.Role)
}

func TestLoginFallsBackToExpClaim(t *testing.T) {
	now := time.Unix(time.Now().Unix(), 0)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": now.Add(45 * time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginPayload(0, signed)) // no timeout_minutes
	}))
	defer ts.Close()

	client, err := plantapi.NewClient(ts.URL, plantapi.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, 45, resp.TimeoutMinutes)
}

func TestLoginRejectsMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Identity present but no authToken
		_ = json.NewEncoder(w).Encode(map[string]any{
			"identity": map[string]string{"id": "user-1"},
		})
	}))
	defer ts.Close()

	client, err := plantapi.NewClient(ts.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, apierrors.ErrMalformedResponse)
}

func TestLoginPropagatesRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad credentials"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	client, err := plantapi.NewClient(ts.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), testEmail, "wrong")
	require.ErrorIs(t, err, apierrors.ErrInvalidCredentials)
}

func TestChangeUserStatusPath(t *testing.T) {
	var gotPath, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client, err := plantapi.NewClient(ts.URL)
	require.NoError(t, err)

	require.NoError(t, client.ChangeUserStatus(context.Background(), "bearer-token-a", "user-2", "suspended"))
	require.Equal(t, "/user/status-change/user-2/suspended", gotPath)
	require.Equal(t, "Bearer bearer-token-a", gotAuth)
}

func TestChangeUserStatusValidatesInput(t *testing.T) {
	client, err := plantapi.NewClient("http://localhost:1")
	require.NoError(t, err)

	// Rejected locally, no HTTP call is made
	require.ErrorIs(t, client.ChangeUserStatus(context.Background(), "tok", "user-2", "vaporized"), apierrors.ErrInvalidStatus)
	require.Error(t, client.ChangeUserStatus(context.Background(), "tok", "", "active"))
}

func TestChangePasswordRejectsWeakPasswordLocally(t *testing.T) {
	client, err := plantapi.NewClient("http://localhost:1")
	require.NoError(t, err)

	err = client.ChangePassword(context.Background(), "tok", "OldPass123", "short")
	require.ErrorIs(t, err, apierrors.ErrWeakPassword)
}

func TestPasswordResetFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/password-reset", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /user/password-reset/otp", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "123456", in["otp"])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"resetToken": "reset-token-1"})
	})
	mux.HandleFunc("POST /user/password-reset/token", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "reset-token-1", in["resetToken"])
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client, err := plantapi.NewClient(ts.URL)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.RequestPasswordReset(ctx, testEmail))

	resetToken, err := client.VerifyResetOTP(ctx, testEmail, "123456")
	require.NoError(t, err)
	require.Equal(t, "reset-token-1", resetToken)

	require.NoError(t, client.CompletePasswordReset(ctx, resetToken, "NewPass123"))
}
