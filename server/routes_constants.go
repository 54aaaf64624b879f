package server

// Route path constants
// Both deployment variants are mounted: the bare paths and their /api/auth
// aliases resolve to the same handlers.
const (
	RouteIndex     = "/"
	RouteLogin     = "/auth/login"
	RouteCallback  = "/auth/callback"
	RouteRefresh   = "/auth/refresh"
	RouteRotate    = "/auth/rotate"
	RouteLogout    = "/auth/logout"
	RouteMe        = "/me"
	RouteDashboard = "/dashboard"

	RouteAPILogin    = "/api/auth/login"
	RouteAPICallback = "/api/auth/callback"
	RouteAPIRefresh  = "/api/auth/refresh"
	RouteAPIRotate   = "/api/auth/rotate"
	RouteAPILogout   = "/api/auth/logout"
	RouteAPIMe       = "/api/auth/me"
)
