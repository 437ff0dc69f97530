package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Portal entry points
	RouteDashboard = "/"
	RouteLogin     = "/login"

	// Session lifecycle
	RouteAuthLogin      = "/auth/login"
	RouteAuthLogout     = "/auth/logout"
	RouteAuthRefresh    = "/auth/refresh"
	RouteAuthSession    = "/auth/session"
	RouteAuthSessionAck = "/auth/session-expired/ack"

	// Password lifecycle (proxied to the plant API)
	RouteChangePassword = "/auth/change-password"
	RouteForgotPassword = "/auth/forgot-password"
	RouteResetOTP       = "/auth/reset-password/otp"
	RouteResetComplete  = "/auth/reset-password/token"

	// Admin
	RouteAdminUserStatus = "/admin/users/{id}/status/{status}"
)
