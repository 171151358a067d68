package setupflow

import (
	"strings"
	"testing"
)

func TestIsValidHost(t *testing.T) {
	tests := []struct {
		name string
		host string
		want bool
	}{
		{"ipv4", "192.168.1.239", true},
		{"ipv6", "fe80::1", true},
		{"hostname", "lgwebostv", true},
		{"fqdn", "tv.example.com", true},
		{"fqdn with trailing dot", "tv.example.com.", true},
		{"hyphenated label", "lg-netcast-tv", true},
		{"empty", "", false},
		{"path separator", "anything/else", false},
		{"embedded space", "tv local", false},
		{"leading hyphen", "-tv.local", false},
		{"trailing hyphen", "tv-.local", false},
		{"empty label", "tv..local", false},
		{"url instead of host", "http://192.168.1.239", false},
		{"label too long", strings.Repeat("a", 64) + ".local", false},
		{"name too long", strings.Repeat("a.", 140) + "local", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidHost(tt.host); got != tt.want {
				t.Errorf("IsValidHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}
