package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-session-service/auth"
	"github.com/jrsteele09/go-session-service/internal/utils"
	"github.com/jrsteele09/go-session-service/provider"
	"github.com/jrsteele09/go-session-service/token"
	"github.com/jrsteele09/go-session-service/users"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends the user-safe error body. Internal detail never reaches
// the client; callers log it separately.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Auth server running. Try /auth/login -> /me",
		})
	}
}

// LoginHandler redirects to the provider consent URL. The state parameter is
// mirrored into a short-lived cookie for the callback to check.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateRandomString(32)
		s.SetOAuthStateCookie(w, state)
		http.Redirect(w, r, s.sessions.LoginURL(state), http.StatusFound)
	}
}

// CallbackHandler exchanges the authorization code, sets the three session
// cookies and responds with a redirect or a success payload depending on
// configuration.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get("state")
		cookieState, ok := ReadCookie(r, oauthStateCookieName)
		if !ok || state == "" || state != cookieState {
			writeError(w, http.StatusBadRequest, "Invalid state parameter")
			return
		}
		s.ClearOAuthStateCookie(w)

		credentials, err := s.sessions.HandleCallback(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			log.Error().Err(err).Msg("callback failed")
			switch {
			case errors.Is(err, auth.MissingCodeErr):
				writeError(w, http.StatusBadRequest, "Missing code")
			case errors.Is(err, provider.ErrMissingIdentity):
				writeError(w, http.StatusBadRequest, "Missing email from payload")
			case errors.Is(err, auth.NoRefreshTokenErr):
				writeError(w, http.StatusUnauthorized, "No refresh token from provider")
			case errors.Is(err, provider.ErrExchangeFailed):
				writeError(w, http.StatusUnauthorized, "Authentication failed")
			default:
				writeError(w, http.StatusInternalServerError, "Authentication failed")
			}
			return
		}

		s.SetSessionCookies(w, credentials)

		if s.callbackRedirectURL != "" {
			http.Redirect(w, r, s.callbackRedirectURL, http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
	}
}

// RefreshHandler mints a new access credential from the refresh cookie. The
// refresh credential itself is unchanged.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshCookie, _ := ReadCookie(r, CookieRefreshToken)

		credentials, err := s.sessions.Refresh(r.Context(), refreshCookie)
		if err != nil {
			log.Error().Err(err).Msg("refresh failed")
			switch {
			case errors.Is(err, auth.MissingRefreshTokenErr):
				writeError(w, http.StatusUnauthorized, "Missing refresh token")
			case errors.Is(err, users.ErrTokenMismatch), errors.Is(err, users.ErrNotFound):
				writeError(w, http.StatusForbidden, "Invalid refresh token")
			default:
				writeError(w, http.StatusForbidden, "Refresh failed")
			}
			return
		}

		s.SetAccessCookie(w, credentials.AccessToken)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Access token refreshed"})
	}
}

// RotateHandler replaces the refresh credential and bumps the token version.
func (s *Server) RotateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessCookie, _ := ReadCookie(r, CookieToken)
		refreshCookie, _ := ReadCookie(r, CookieRefreshToken)

		credentials, err := s.sessions.Rotate(r.Context(), accessCookie, refreshCookie)
		if err != nil {
			log.Error().Err(err).Msg("rotation failed")
			switch {
			case errors.Is(err, token.ErrMissingToken),
				errors.Is(err, token.ErrInvalidToken),
				errors.Is(err, auth.MissingRefreshTokenErr):
				writeError(w, http.StatusUnauthorized, "Missing token or user")
			case errors.Is(err, users.ErrTokenMismatch), errors.Is(err, users.ErrNotFound):
				writeError(w, http.StatusForbidden, "Invalid refresh token")
			default:
				writeError(w, http.StatusInternalServerError, "Token rotation failed")
			}
			return
		}

		s.SetSessionCookies(w, credentials)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Refresh token rotated"})
	}
}

// LogoutHandler always clears the session cookies. Revoking the stored
// refresh credential is best-effort and needs a verifiable access credential.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessCookie, _ := ReadCookie(r, CookieToken)

		if err := s.sessions.Logout(r.Context(), accessCookie); err != nil {
			log.Error().Err(err).Msg("logout revocation failed")
		}

		s.ClearSessionCookies(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

// MeHandler returns the durable user record for the authenticated user.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessCookie, _ := ReadCookie(r, CookieToken)

		user, err := s.sessions.Me(r.Context(), accessCookie)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrMissingToken):
				writeError(w, http.StatusUnauthorized, "Unauthorized: No token")
			case errors.Is(err, token.ErrInvalidToken):
				writeError(w, http.StatusForbidden, "Invalid or expired token")
			case errors.Is(err, users.ErrNotFound):
				writeError(w, http.StatusNotFound, "User not found")
			default:
				log.Error().Err(err).Msg("me lookup failed")
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"email":     user.Email,
			"name":      user.Name,
			"createdAt": user.CreatedAt,
		})
	}
}

// DashboardHandler greets the user from mint-time claims, no store lookup.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessCookie, _ := ReadCookie(r, CookieToken)

		claims, err := s.sessions.ClaimsFromAccessToken(accessCookie)
		if err != nil {
			if errors.Is(err, token.ErrMissingToken) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome, " + utils.Value(claims.Name),
		})
	}
}
