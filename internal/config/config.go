package config

type Config interface {
	EnvConfig
	OAuthConfig
	SecurityConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDBPath() string
	GetJWTSecret() string
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURI() string
	GetCallbackRedirectURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	*EnvVars
	OAuth
	Security
	Cors
}

func New() (Config, error) {
	envVars, err := ParseEnvVars()
	if err != nil {
		return nil, err
	}
	return mainConfig{
		EnvVars: envVars,
		Cors:    NewCors(envVars.AllowedOrigins),
	}, nil
}
