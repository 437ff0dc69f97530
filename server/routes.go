package server

func (s *Server) initRoutes() {
	// Portal entry points
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.BaseMiddleware(s.RequireAuthenticated())...))
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.BaseMiddleware(s.RequireAnonymous())...))

	// Session lifecycle
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthSessionAck, ChainMiddleware(s.SessionAckHandler(), s.APIMiddleware()...))

	// Password lifecycle
	s.RegisterRouteHandler("POST "+RouteChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.APIMiddleware(s.RequireAuthenticated())...))
	s.RegisterRouteHandler("POST "+RouteForgotPassword, ChainMiddleware(s.ForgotPasswordHandler(), s.APIMiddleware(s.RequireAnonymous())...))
	s.RegisterRouteHandler("POST "+RouteResetOTP, ChainMiddleware(s.ResetOTPHandler(), s.APIMiddleware(s.RequireAnonymous())...))
	s.RegisterRouteHandler("POST "+RouteResetComplete, ChainMiddleware(s.ResetCompleteHandler(), s.APIMiddleware(s.RequireAnonymous())...))

	// Admin
	s.RegisterRouteHandler("POST "+RouteAdminUserStatus, ChainMiddleware(s.UserStatusChangeHandler(), s.APIMiddleware(s.RequireAuthenticated(), s.RequireRole("admin"))...))
}
