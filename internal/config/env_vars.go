package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvVars holds every environment variable the service recognises.
// Parsed once at startup via caarlos0/env.
type EnvVars struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Session Service"`
	NodeEnv string `env:"NODE_ENV" envDefault:"development"`
	DBPath  string `env:"DB_PATH" envDefault:"./data/users.db"`

	JWTSecret string `env:"JWT_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI"`

	// CallbackRedirectURL, when set, makes the OAuth callback respond with a
	// 302 to this URL instead of a JSON success payload.
	CallbackRedirectURL string `env:"CALLBACK_REDIRECT_URL"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

var _ EnvConfig = (*EnvVars)(nil)

func ParseEnvVars() (*EnvVars, error) {
	envVars := &EnvVars{}
	if err := env.Parse(envVars); err != nil {
		return nil, fmt.Errorf("[ParseEnvVars] parse env: %w", err)
	}
	return envVars, nil
}

func (e *EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e *EnvVars) GetAppName() string {
	return e.AppName
}

func (e *EnvVars) GetEnv() string {
	return e.NodeEnv
}

func (e *EnvVars) GetDBPath() string {
	return e.DBPath
}

func (e *EnvVars) GetJWTSecret() string {
	return e.JWTSecret
}

func (e *EnvVars) GetGoogleClientID() string {
	return e.GoogleClientID
}

func (e *EnvVars) GetGoogleClientSecret() string {
	return e.GoogleClientSecret
}

func (e *EnvVars) GetGoogleRedirectURI() string {
	return e.GoogleRedirectURI
}

func (e *EnvVars) GetCallbackRedirectURL() string {
	return e.CallbackRedirectURL
}
