package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-session-service/auth"
)

// Session cookie names. The access credential, refresh credential and token
// version travel in separate cookies; token_version is informational only
// and never trusted for authorization.
const (
	CookieToken        = "token"
	CookieRefreshToken = "refresh_token"
	CookieTokenVersion = "token_version"

	// oauthStateCookieName tracks the state parameter across the consent
	// round trip.
	oauthStateCookieName = "oauth_state"
)

// ReadCookie returns the trimmed value of a named cookie when present.
func ReadCookie(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge int, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: sameSite,
		MaxAge:   maxAge,
	})
}

// SetAccessCookie writes the short-lived access credential cookie.
func (s *Server) SetAccessCookie(w http.ResponseWriter, accessToken string) {
	s.setCookie(w, CookieToken, accessToken, s.accessCookieMaxAge, http.SameSiteStrictMode)
}

// SetSessionCookies writes all three session cookies from a credential set.
func (s *Server) SetSessionCookies(w http.ResponseWriter, credentials *auth.Credentials) {
	s.SetAccessCookie(w, credentials.AccessToken)
	s.setCookie(w, CookieRefreshToken, credentials.RefreshToken, s.refreshCookieMaxAge, http.SameSiteStrictMode)
	s.setCookie(w, CookieTokenVersion, strconv.Itoa(credentials.TokenVersion), s.refreshCookieMaxAge, http.SameSiteStrictMode)
}

// ClearSessionCookies expires all three session cookies unconditionally.
func (s *Server) ClearSessionCookies(w http.ResponseWriter) {
	s.setCookie(w, CookieToken, "", -1, http.SameSiteStrictMode)
	s.setCookie(w, CookieRefreshToken, "", -1, http.SameSiteStrictMode)
	s.setCookie(w, CookieTokenVersion, "", -1, http.SameSiteStrictMode)
}

// SetOAuthStateCookie writes the short-lived state cookie for the consent
// round trip. Lax, not Strict: the browser must send it on the provider's
// redirect back.
func (s *Server) SetOAuthStateCookie(w http.ResponseWriter, state string) {
	s.setCookie(w, oauthStateCookieName, state, s.stateCookieMaxAge, http.SameSiteLaxMode)
}

// ClearOAuthStateCookie expires the state cookie after use.
func (s *Server) ClearOAuthStateCookie(w http.ResponseWriter) {
	s.setCookie(w, oauthStateCookieName, "", -1, http.SameSiteLaxMode)
}
