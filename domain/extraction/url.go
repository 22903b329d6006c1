package extraction

import (
	"net/url"
	"strings"
)

// ValidURL reports whether raw is an absolute http or https URL with a host.
// Anything else, including strings that look like command-line flags, is rejected.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
