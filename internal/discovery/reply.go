package discovery

import (
	"bufio"
	"bytes"
	"net/url"
	"strings"
)

// Reply holds the header/value pairs of one SSDP search response.
// Header names are case-insensitive; keys are folded to lower case on entry.
type Reply struct {
	headers map[string]string
}

// NewReply builds a Reply from a header map. Keys are folded to lower case,
// so lookups behave the same regardless of the casing the device used.
func NewReply(headers map[string]string) Reply {
	folded := make(map[string]string, len(headers))
	for k, v := range headers {
		folded[strings.ToLower(k)] = v
	}
	return Reply{headers: folded}
}

// ParseReply parses a raw SSDP search response datagram.
// Responses look like an HTTP/1.1 200 status line followed by header lines.
// Returns false for datagrams that are not search responses.
func ParseReply(data []byte) (Reply, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return Reply{}, false
	}
	status := sc.Text()
	if !strings.HasPrefix(status, "HTTP/") || !strings.Contains(status, "200") {
		return Reply{}, false
	}

	headers := make(map[string]string)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:i]))
		value := strings.TrimSpace(line[i+1:])
		if key == "" {
			continue
		}
		headers[key] = value
	}

	return Reply{headers: headers}, true
}

// Get returns the value for the given header name, or "" if absent.
func (r Reply) Get(key string) string {
	return r.headers[strings.ToLower(key)]
}

// ServiceType returns the ST header value.
func (r Reply) ServiceType() string {
	return r.Get("st")
}

// USN returns the unique service name header value.
func (r Reply) USN() string {
	return r.Get("usn")
}

// Location returns the descriptor document URL advertised by the reply.
func (r Reply) Location() string {
	return r.Get("location")
}

// UniqueID derives the stable device id from the USN header.
// The USN has the shape "uuid:<id>:<rest>"; the id is the second
// colon-delimited segment. Returns "" if the USN does not have one.
func (r Reply) UniqueID() string {
	parts := strings.Split(r.USN(), ":")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Headers returns a copy of the reply's headers with lower-cased keys.
func (r Reply) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// hostnameOf extracts the hostname from a location URL, or "" if the URL
// cannot be parsed.
func hostnameOf(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
