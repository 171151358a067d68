package netcast

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPort is the ROAP control port NetCast TVs listen on
	DefaultPort = 8080

	// MaxAccessTokenLength is the longest access token (pairing PIN) a
	// NetCast TV will issue
	MaxAccessTokenLength = 6

	// DefaultTimeout is the HTTP request timeout for session calls
	DefaultTimeout = 10 * time.Second

	roapPrefix  = "roap/api"
	contentType = "application/atom+xml"
)

const (
	xmlHeader      = `<?xml version="1.0" encoding="utf8"?>`
	pairKeyRequest = xmlHeader + `<auth><type>AuthKeyReq</type></auth>`
	authRequest    = xmlHeader + `<auth><type>AuthReq</type><value>%s</value></auth>`
)

// Client opens control sessions against one NetCast TV.
type Client struct {
	// Host is the TV's hostname or IP address
	Host string

	// AccessToken is the pairing PIN displayed on the TV, if known
	AccessToken string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	baseURL string
}

// NewClient creates a session client for the given host. accessToken may be
// empty; GetSessionID then asks the TV to display its PIN and reports an
// AccessTokenError.
func NewClient(host, accessToken string) *Client {
	return &Client{
		Host:        host,
		AccessToken: accessToken,
		HTTPClient:  &http.Client{Timeout: DefaultTimeout},
		baseURL: fmt.Sprintf("http://%s/%s/",
			net.JoinHostPort(host, strconv.Itoa(DefaultPort)), roapPrefix),
	}
}

// NewClientWithURL creates a session client for a full base URL, e.g.
// "http://192.168.1.239:8080". Useful when the control port is nonstandard.
func NewClientWithURL(baseURL, accessToken string) *Client {
	return &Client{
		Host:        hostnameOf(baseURL),
		AccessToken: accessToken,
		HTTPClient:  &http.Client{Timeout: DefaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/") + "/" + roapPrefix + "/",
	}
}

func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// authEnvelope is the TV's answer to an AuthReq.
type authEnvelope struct {
	XMLName xml.Name `xml:"envelope"`
	Session string   `xml:"session"`
}

// GetSessionID opens a control session and returns its id.
//
// With no access token set, the TV is first asked to display its pairing
// key on screen, and an AccessTokenError is returned so the caller can
// prompt for the PIN. A 401 answer to an attempted token is also an
// AccessTokenError; every other failure is a SessionError.
func (c *Client) GetSessionID(ctx context.Context) (string, error) {
	if c.AccessToken == "" {
		// Put the PIN on the TV screen so the user has something to type
		if err := c.DisplayPairKey(ctx); err != nil {
			return "", &SessionError{Reason: "cannot request pair key", Err: err}
		}
		return "", &AccessTokenError{Reason: "no access token specified to create session"}
	}

	var value strings.Builder
	if err := xml.EscapeText(&value, []byte(c.AccessToken)); err != nil {
		return "", &AccessTokenError{Reason: "access token not encodable"}
	}

	resp, err := c.post(ctx, "auth", fmt.Sprintf(authRequest, value.String()))
	if err != nil {
		return "", &SessionError{Reason: "tv unreachable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", &AccessTokenError{Reason: "access token rejected by tv"}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &SessionError{Reason: fmt.Sprintf("cannot get session id from tv (status %d)", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SessionError{Reason: "cannot read session response", Err: err}
	}

	var envelope authEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return "", &SessionError{Reason: "cannot parse session response", Err: err}
	}
	if envelope.Session == "" {
		return "", &SessionError{Reason: "tv answered without a session id"}
	}

	return envelope.Session, nil
}

// DisplayPairKey asks the TV to show its pairing key on screen.
func (c *Client) DisplayPairKey(ctx context.Context) error {
	resp, err := c.post(ctx, "auth", pairKeyRequest)
	if err != nil {
		return &SessionError{Reason: "tv unreachable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &SessionError{Reason: fmt.Sprintf("tv refused pair key request (status %d)", resp.StatusCode)}
	}
	return nil
}

func (c *Client) post(ctx context.Context, messageType, payload string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+messageType, strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.HTTPClient.Do(req)
}
