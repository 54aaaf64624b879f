package config

import "time"

type OAuthConfig interface {
	GetAccessTokenExpiry() time.Duration
	GetRefreshCookieExpiry() time.Duration
	GetRefreshTokenLength() int
	GetProviderTimeout() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

func (OAuth) GetRefreshCookieExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (OAuth) GetRefreshTokenLength() int {
	return 64 // 64 bytes = 512 bits, hex encoded to 128 chars
}

func (OAuth) GetProviderTimeout() time.Duration {
	return 10 * time.Second
}
