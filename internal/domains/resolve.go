// Package domains normalizes company websites into canonical lookup keys
// and checks mail-exchange configuration for guessed addresses.
package domains

import (
	"net/url"
	"strings"
)

// Resolve normalizes a company website into its canonical registrable
// domain: lowercase host, scheme and leading "www." stripped.
//
// Resolve fails soft: a malformed or empty website returns "" and callers
// skip the company rather than aborting the batch.
func Resolve(website string) string {
	raw := strings.TrimSpace(website)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" || strings.ContainsAny(host, " \t") || !strings.Contains(host, ".") {
		return ""
	}
	return host
}
