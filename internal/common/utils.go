package common

import (
	"net/url"
	"strings"
)

// secretParams are query parameters never written to logs.
var secretParams = []string{"apikey", "api_key", "key", "appid", "token"}

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// RedactURL masks secret query parameter values so the URL can be logged.
// Unparseable input is replaced wholesale.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}

	q := u.Query()
	changed := false
	for k := range q {
		if HasAny(strings.ToLower(k), secretParams...) {
			q.Set(k, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
