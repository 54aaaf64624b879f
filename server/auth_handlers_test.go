package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-session-service/auth"
	"github.com/jrsteele09/go-session-service/internal/config"
	"github.com/jrsteele09/go-session-service/internal/utils"
	"github.com/jrsteele09/go-session-service/provider"
	fakeexchanger "github.com/jrsteele09/go-session-service/provider/providerfake"
	"github.com/jrsteele09/go-session-service/server"
	"github.com/jrsteele09/go-session-service/token"
	fakeuserrepo "github.com/jrsteele09/go-session-service/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testSecret           = "test-jwt-secret"
	testUserEmail        = "john.doe@example.com"
	testUserName         = "John Doe"
	testAuthCode         = "auth-code-1"
	testState            = "state-123"
	providerRefreshToken = "provider-refresh-token-1"
)

type testConfig struct {
	*config.EnvVars
	config.OAuth
	config.Security
	config.Cors
}

type serverFixture struct {
	server    *server.Server
	userRepo  *fakeuserrepo.FakeUserRepo
	exchanger *fakeexchanger.FakeExchanger
	tokens    *token.Manager
}

func setupServerFixture(t *testing.T, envVars *config.EnvVars) *serverFixture {
	t.Helper()

	if envVars == nil {
		envVars = &config.EnvVars{NodeEnv: "test", JWTSecret: testSecret}
	}
	cfg := testConfig{EnvVars: envVars}

	ur := fakeuserrepo.NewFakeUserRepo()
	ex := fakeexchanger.NewFakeExchanger()
	tm := token.NewManager(testSecret, cfg)

	sessionService, err := auth.NewSessionService(auth.Repos{Users: ur}, ex, tm, cfg)
	require.NoError(t, err)

	srv, err := server.New(cfg, sessionService)
	require.NoError(t, err)

	return &serverFixture{
		server:    srv,
		userRepo:  ur,
		exchanger: ex,
		tokens:    tm,
	}
}

func (f *serverFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

// login runs the full callback flow and returns the issued session cookies.
func (f *serverFixture) login(t *testing.T) []*http.Cookie {
	t.Helper()

	f.exchanger.SeedCode(testAuthCode, provider.Identity{
		Email: testUserEmail,
		Name:  utils.Ptr(testUserName),
	}, providerRefreshToken)

	req := httptest.NewRequest(http.MethodGet,
		"/auth/callback?code="+testAuthCode+"&state="+testState, nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: testState})

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Result().Cookies()
}

func sessionCookies(t *testing.T, cookies []*http.Cookie) (access, refresh, version *http.Cookie) {
	t.Helper()
	for _, c := range cookies {
		switch c.Name {
		case server.CookieToken:
			access = c
		case server.CookieRefreshToken:
			refresh = c
		case server.CookieTokenVersion:
			version = c
		}
	}
	return access, refresh, version
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestLoginRedirectsToConsentURL(t *testing.T) {
	f := setupServerFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	// The state parameter is mirrored into a cookie for the callback check.
	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)
	require.Equal(t, state, stateCookie.Value)
	require.True(t, stateCookie.HttpOnly)
}

func TestCallbackSetsAllThreeCookies(t *testing.T) {
	f := setupServerFixture(t, nil)

	cookies := f.login(t)
	accessCookie, refreshCookie, versionCookie := sessionCookies(t, cookies)

	require.NotNil(t, accessCookie)
	require.NotNil(t, refreshCookie)
	require.NotNil(t, versionCookie)

	claims, err := f.tokens.Verify(accessCookie.Value)
	require.NoError(t, err)
	require.Equal(t, testUserEmail, claims.Email)

	require.Equal(t, providerRefreshToken, refreshCookie.Value)
	require.Equal(t, "0", versionCookie.Value)

	for _, c := range []*http.Cookie{accessCookie, refreshCookie, versionCookie} {
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}
	require.Equal(t, 900, accessCookie.MaxAge)
	require.Equal(t, 604800, refreshCookie.MaxAge)
	require.Equal(t, 604800, versionCookie.MaxAge)
}

func TestCallbackRedirectVariant(t *testing.T) {
	f := setupServerFixture(t, &config.EnvVars{
		NodeEnv:             "test",
		JWTSecret:           testSecret,
		CallbackRedirectURL: "/dashboard",
	})
	f.exchanger.SeedCode(testAuthCode, provider.Identity{
		Email: testUserEmail,
		Name:  utils.Ptr(testUserName),
	}, providerRefreshToken)

	req := httptest.NewRequest(http.MethodGet,
		"/auth/callback?code="+testAuthCode+"&state="+testState, nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: testState})

	rec := f.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestCallbackRejectsBadState(t *testing.T) {
	f := setupServerFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=x&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: testState})

	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid state parameter", errorBody(t, rec))
}

func TestCallbackMissingCode(t *testing.T) {
	f := setupServerFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state="+testState, nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: testState})

	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing code", errorBody(t, rec))
}

func TestMeWithoutCookie(t *testing.T) {
	f := setupServerFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized: No token", errorBody(t, rec))
}

func TestMeReturnsProfile(t *testing.T) {
	f := setupServerFixture(t, nil)
	accessCookie, _, _ := sessionCookies(t, f.login(t))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(accessCookie)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Email     string  `json:"email"`
		Name      *string `json:"name"`
		CreatedAt string  `json:"createdAt"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, testUserEmail, body.Email)
	require.Equal(t, testUserName, utils.Value(body.Name))
	require.NotEmpty(t, body.CreatedAt)
}

func TestMeAPIAlias(t *testing.T) {
	f := setupServerFixture(t, nil)
	accessCookie, _, _ := sessionCookies(t, f.login(t))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(accessCookie)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	f := setupServerFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/refresh", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Missing refresh token", errorBody(t, rec))
}

func TestRefreshIssuesNewAccessCookie(t *testing.T) {
	f := setupServerFixture(t, nil)
	_, refreshCookie, _ := sessionCookies(t, f.login(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/refresh", nil)
	req.AddCookie(refreshCookie)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	accessCookie, newRefreshCookie, _ := sessionCookies(t, rec.Result().Cookies())
	require.NotNil(t, accessCookie)
	require.Nil(t, newRefreshCookie) // refresh credential unchanged

	claims, err := f.tokens.Verify(accessCookie.Value)
	require.NoError(t, err)
	require.Equal(t, testUserEmail, claims.Email)
}

func TestRotateWithMismatchedRefreshCookie(t *testing.T) {
	f := setupServerFixture(t, nil)
	accessCookie, _, _ := sessionCookies(t, f.login(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/rotate", nil)
	req.AddCookie(accessCookie)
	req.AddCookie(&http.Cookie{Name: server.CookieRefreshToken, Value: "stolen-or-stale"})

	rec := f.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid refresh token", errorBody(t, rec))
}

func TestRotateIssuesNewCredentials(t *testing.T) {
	f := setupServerFixture(t, nil)
	accessCookie, refreshCookie, _ := sessionCookies(t, f.login(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/rotate", nil)
	req.AddCookie(accessCookie)
	req.AddCookie(refreshCookie)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	newAccess, newRefresh, newVersion := sessionCookies(t, rec.Result().Cookies())
	require.NotNil(t, newAccess)
	require.NotNil(t, newRefresh)
	require.NotNil(t, newVersion)
	require.NotEqual(t, providerRefreshToken, newRefresh.Value)
	require.Equal(t, "1", newVersion.Value)
}

func TestRotateWithoutCookies(t *testing.T) {
	f := setupServerFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/rotate", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Missing token or user", errorBody(t, rec))
}

func TestLogoutAlwaysClearsCookies(t *testing.T) {
	f := setupServerFixture(t, nil)

	// No cookies at all: still 200 and still clears.
	rec := f.do(httptest.NewRequest(http.MethodGet, "/auth/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	accessCookie, refreshCookie, versionCookie := sessionCookies(t, rec.Result().Cookies())
	require.NotNil(t, accessCookie)
	require.NotNil(t, refreshCookie)
	require.NotNil(t, versionCookie)
	for _, c := range []*http.Cookie{accessCookie, refreshCookie, versionCookie} {
		require.Empty(t, c.Value)
		require.Less(t, c.MaxAge, 0)
	}
}

func TestLogoutRevokesStoredToken(t *testing.T) {
	f := setupServerFixture(t, nil)
	accessCookie, _, _ := sessionCookies(t, f.login(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(accessCookie)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := f.userRepo.GetByEmail(req.Context(), testUserEmail)
	require.NoError(t, err)
	require.False(t, user.HasRefreshToken())
}

func TestDashboardGreetsFromClaims(t *testing.T) {
	f := setupServerFixture(t, nil)
	accessCookie, _, _ := sessionCookies(t, f.login(t))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(accessCookie)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "Welcome, "+testUserName, body["message"])
}

func TestDashboardWithoutCookie(t *testing.T) {
	f := setupServerFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized", errorBody(t, rec))
}
