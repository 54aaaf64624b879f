package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-session-service/auth"
	"github.com/jrsteele09/go-session-service/internal/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "development", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *auth.SessionService

	secureCookies       bool
	accessCookieMaxAge  int
	refreshCookieMaxAge int
	stateCookieMaxAge   int

	// callbackRedirectURL, when non-empty, makes the callback respond with a
	// redirect instead of a JSON success payload.
	callbackRedirectURL string
}

func New(cfg config.Config, sessionService *auth.SessionService) (*Server, error) {
	if sessionService == nil {
		return nil, fmt.Errorf("[Server New] session service is required")
	}

	s := &Server{
		mux:                 http.NewServeMux(),
		config:              cfg,
		sessions:            sessionService,
		env:                 cfg.GetEnv(),
		secureCookies:       cfg.GetSecureCookies(cfg.GetEnv()),
		accessCookieMaxAge:  int(cfg.GetAccessTokenExpiry().Seconds()),
		refreshCookieMaxAge: int(cfg.GetRefreshCookieExpiry().Seconds()),
		stateCookieMaxAge:   int(cfg.GetStateCookieExpiry().Seconds()),
		callbackRedirectURL: cfg.GetCallbackRedirectURL(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env == "production" {
		return // Skip logging outside development
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}
