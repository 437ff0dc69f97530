package config

import (
	"strconv"
	"time"
)

// SessionConfig carries the session-lifecycle tunables. The monitor period
// and the forced-logout delay are configuration, not magic numbers, so
// tests can compress them.
type SessionConfig interface {
	GetDefaultTTLMinutes() int
	GetExpiryCheckInterval() time.Duration
	GetLogoutDelay() time.Duration
}

const (
	ttlMinutesVar   = "SESSION_TTL_MINUTES"
	checkSecondsVar = "EXPIRY_CHECK_SECONDS"
	logoutDelayVar  = "LOGOUT_DELAY_SECONDS"
)

type SessionVars struct{}

var _ SessionConfig = SessionVars{}

// GetDefaultTTLMinutes is the fallback session TTL used when a login
// response carries no timeout.
func (SessionVars) GetDefaultTTLMinutes() int {
	return getEnvInt(ttlMinutesVar, 30)
}

func (SessionVars) GetExpiryCheckInterval() time.Duration {
	return time.Duration(getEnvInt(checkSecondsVar, 60)) * time.Second
}

func (SessionVars) GetLogoutDelay() time.Duration {
	return time.Duration(getEnvInt(logoutDelayVar, 2)) * time.Second
}

func getEnvInt(envVar string, defaultValue int) int {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}
