package client

import "github.com/catalogport/plenty-export/pkg/ratelimit"

// Session is the only mutable state shared across calls: the protocol
// scheme detected at login, the token pair, and the throttling
// cooldown. It is owned exclusively by the Client and lives for one
// export run; all mutation goes through Client methods.
type Session struct {
	scheme       string
	accessToken  string
	refreshToken string
	cooldown     ratelimit.Cooldown
}

// Scheme returns the active protocol scheme ("https" or "http").
func (s *Session) Scheme() string {
	return s.scheme
}

// AccessToken returns the bearer token obtained at login, or "".
func (s *Session) AccessToken() string {
	return s.accessToken
}

// RefreshToken returns the refresh token obtained at login, or "".
func (s *Session) RefreshToken() string {
	return s.refreshToken
}

// CooldownPending reports whether a throttling cooldown is scheduled
// for the next call.
func (s *Session) CooldownPending() bool {
	return s.cooldown.Pending()
}

func (s *Session) setTokens(access, refresh string) {
	s.accessToken = access
	if refresh != "" {
		s.refreshToken = refresh
	}
}

// flipScheme switches between https and http once during protocol
// auto-detection. The result is memoized for all later calls.
func (s *Session) flipScheme() {
	if s.scheme == "https" {
		s.scheme = "http"
	} else {
		s.scheme = "https"
	}
}
