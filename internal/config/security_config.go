package config

import "time"

type SecurityConfig interface {
	GetSecureCookies(envName string) bool
	GetStateCookieExpiry() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSecureCookies(envName string) bool {
	return envName == "production"
}

func (Security) GetStateCookieExpiry() time.Duration {
	return 5 * time.Minute // Just long enough for the consent round trip
}
