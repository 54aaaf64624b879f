package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteIndex, s.IndexHandler())

	loginHandler := ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...)
	callbackHandler := ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...)
	refreshHandler := ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...)
	rotateHandler := ChainMiddleware(s.RotateHandler(), s.APIMiddleware()...)
	logoutHandler := ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...)
	meHandler := ChainMiddleware(s.MeHandler(), s.APIMiddleware()...)

	// Both deployment variants mount as equivalent configurations.
	s.RegisterRouteFunc("GET "+RouteLogin, loginHandler)
	s.RegisterRouteFunc("GET "+RouteAPILogin, loginHandler)
	s.RegisterRouteFunc("GET "+RouteCallback, callbackHandler)
	s.RegisterRouteFunc("GET "+RouteAPICallback, callbackHandler)
	s.RegisterRouteFunc("GET "+RouteRefresh, refreshHandler)
	s.RegisterRouteFunc("GET "+RouteAPIRefresh, refreshHandler)
	s.RegisterRouteFunc("GET "+RouteRotate, rotateHandler)
	s.RegisterRouteFunc("GET "+RouteAPIRotate, rotateHandler)
	s.RegisterRouteFunc("GET "+RouteLogout, logoutHandler)
	s.RegisterRouteFunc("GET "+RouteAPILogout, logoutHandler)
	s.RegisterRouteFunc("GET "+RouteMe, meHandler)
	s.RegisterRouteFunc("GET "+RouteAPIMe, meHandler)

	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.APIMiddleware()...))
}
