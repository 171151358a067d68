package setupflow

import (
	"net"
	"regexp"
	"strings"
)

// hostnameLabel matches one DNS label: alphanumerics and inner hyphens,
// 1-63 characters.
var hostnameLabel = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// IsValidHost reports whether host is a syntactically plausible IP address
// or hostname. It deliberately checks syntax only; reachability is the
// authorize step's problem.
func IsValidHost(host string) bool {
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return true
	}
	return isValidHostname(host)
}

func isValidHostname(host string) bool {
	if len(host) > 255 {
		return false
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if !hostnameLabel.MatchString(label) {
			return false
		}
	}
	return true
}
