package types

import "time"

// TokenLifetime is how long a provider token is cached. The provider
// grants 24 hours; keeping one hour of margin avoids using a token that
// expires mid-request.
const TokenLifetime = 23 * time.Hour

// AccessToken is the cached bearer token for the provider API.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// Usable reports whether the token can be sent as-is at the given time.
func (t AccessToken) Usable(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}
