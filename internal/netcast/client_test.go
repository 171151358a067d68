package netcast

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const mockSessionResponse = `<?xml version="1.0" encoding="utf-8"?>
<envelope><ROAPError>200</ROAPError><session>987654321</session></envelope>`

// tvServer emulates the ROAP auth endpoint of a paired TV with the given
// PIN, recording every request type it sees.
func tvServer(t *testing.T, pairKey string, requests *[]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/roap/api/auth" {
			t.Errorf("request path = %q, want /roap/api/auth", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/atom+xml" {
			t.Errorf("Content-Type = %q, want application/atom+xml", got)
		}
		body, _ := io.ReadAll(r.Body)
		payload := string(body)
		*requests = append(*requests, payload)

		switch {
		case strings.Contains(payload, "<type>AuthKeyReq</type>"):
			w.WriteHeader(http.StatusOK)
		case strings.Contains(payload, "<value>"+pairKey+"</value>"):
			w.Write([]byte(mockSessionResponse))
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.1.239", "123456")

	if client.Host != "192.168.1.239" {
		t.Errorf("Host = %q, want 192.168.1.239", client.Host)
	}
	if client.AccessToken != "123456" {
		t.Errorf("AccessToken = %q, want 123456", client.AccessToken)
	}
	if client.baseURL != "http://192.168.1.239:8080/roap/api/" {
		t.Errorf("baseURL = %q, want http://192.168.1.239:8080/roap/api/", client.baseURL)
	}
}

func TestNewClientWithURL(t *testing.T) {
	client := NewClientWithURL("http://192.168.1.239:9090/", "123456")

	if client.baseURL != "http://192.168.1.239:9090/roap/api/" {
		t.Errorf("baseURL = %q, want http://192.168.1.239:9090/roap/api/", client.baseURL)
	}
	if client.Host != "192.168.1.239" {
		t.Errorf("Host = %q, want 192.168.1.239", client.Host)
	}
}

func TestGetSessionID(t *testing.T) {
	var requests []string
	server := tvServer(t, "123456", &requests)

	client := NewClientWithURL(server.URL, "123456")
	session, err := client.GetSessionID(context.Background())
	if err != nil {
		t.Fatalf("GetSessionID() error = %v", err)
	}
	if session != "987654321" {
		t.Errorf("GetSessionID() = %q, want 987654321", session)
	}
	if len(requests) != 1 || !strings.Contains(requests[0], "<type>AuthReq</type>") {
		t.Errorf("requests = %v, want a single AuthReq", requests)
	}
}

func TestGetSessionIDWithoutTokenDisplaysPairKey(t *testing.T) {
	var requests []string
	server := tvServer(t, "123456", &requests)

	client := NewClientWithURL(server.URL, "")
	_, err := client.GetSessionID(context.Background())

	var tokenErr *AccessTokenError
	if !errors.As(err, &tokenErr) {
		t.Fatalf("GetSessionID() error = %v, want AccessTokenError", err)
	}
	if len(requests) != 1 || !strings.Contains(requests[0], "<type>AuthKeyReq</type>") {
		t.Errorf("requests = %v, want a single AuthKeyReq", requests)
	}
}

func TestGetSessionIDRejectedToken(t *testing.T) {
	var requests []string
	server := tvServer(t, "123456", &requests)

	client := NewClientWithURL(server.URL, "000000")
	_, err := client.GetSessionID(context.Background())

	var tokenErr *AccessTokenError
	if !errors.As(err, &tokenErr) {
		t.Fatalf("GetSessionID() error = %v, want AccessTokenError", err)
	}
}

func TestGetSessionIDServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "123456")
	_, err := client.GetSessionID(context.Background())

	var sessionErr *SessionError
	if !errors.As(err, &sessionErr) {
		t.Fatalf("GetSessionID() error = %v, want SessionError", err)
	}
	var tokenErr *AccessTokenError
	if errors.As(err, &tokenErr) {
		t.Error("a server error must not be reported as a token error")
	}
}

func TestGetSessionIDUnreachableTV(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewClientWithURL(baseURL, "123456")
	_, err := client.GetSessionID(context.Background())

	var sessionErr *SessionError
	if !errors.As(err, &sessionErr) {
		t.Fatalf("GetSessionID() error = %v, want SessionError", err)
	}
	if sessionErr.Unwrap() == nil {
		t.Error("SessionError for a network failure should wrap the cause")
	}
}

func TestGetSessionIDUnusableResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed xml", `<envelope><session>`},
		{"missing session", `<envelope><ROAPError>200</ROAPError></envelope>`},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClientWithURL(server.URL, "123456")
			_, err := client.GetSessionID(context.Background())

			var sessionErr *SessionError
			if !errors.As(err, &sessionErr) {
				t.Errorf("GetSessionID() error = %v, want SessionError", err)
			}
		})
	}
}

func TestGetSessionIDEscapesToken(t *testing.T) {
	var requests []string
	server := tvServer(t, "123456", &requests)

	client := NewClientWithURL(server.URL, `<&>"'`)
	_, _ = client.GetSessionID(context.Background())

	if len(requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(requests))
	}
	if strings.Contains(requests[0], "<value><") {
		t.Errorf("token not XML-escaped in request body: %s", requests[0])
	}
}

func TestDisplayPairKey(t *testing.T) {
	var requests []string
	server := tvServer(t, "123456", &requests)

	client := NewClientWithURL(server.URL, "")
	if err := client.DisplayPairKey(context.Background()); err != nil {
		t.Fatalf("DisplayPairKey() error = %v", err)
	}
	if len(requests) != 1 || !strings.Contains(requests[0], "AuthKeyReq") {
		t.Errorf("requests = %v, want a single AuthKeyReq", requests)
	}
}

func TestDisplayPairKeyRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL, "")
	if err := client.DisplayPairKey(context.Background()); err == nil {
		t.Error("DisplayPairKey() error = nil, want failure on a refusing TV")
	}
}
