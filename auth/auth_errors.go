package auth

import "errors"

var (
	MissingCodeErr         = errors.New("missing authorization code")
	MissingRefreshTokenErr = errors.New("missing refresh token")
	NoRefreshTokenErr      = errors.New("no refresh token issued by provider")
)
