package simulator

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/splinter98/lgnetcast/internal/discovery"
)

const (
	// DescriptorPath is where the TV serves its descriptor document
	DescriptorPath = "/udap/api/data"

	// AuthPath is the ROAP session endpoint
	AuthPath = "/roap/api/auth"

	descriptorTarget = "netrcu.xml"
)

// Simulator emulates one LG NetCast TV: it answers SSDP search requests
// for the netrcu service type, serves the XML descriptor document, and
// accepts a configured pairing PIN at the ROAP auth endpoint.
type Simulator struct {
	// UniqueID ends up as the second USN segment (the stable device id)
	UniqueID string

	// ModelName, FriendlyName and Manufacturer fill the descriptor
	ModelName    string
	FriendlyName string
	Manufacturer string

	// PairKey is the PIN the simulator accepts at the auth endpoint
	PairKey string

	// HTTPAddr is the listen address for the descriptor/auth server,
	// e.g. ":8080"
	HTTPAddr string

	log *zap.Logger

	httpListener net.Listener
	httpServer   *http.Server
	ssdpConn     *net.UDPConn
}

// New creates a simulator with the given identity.
func New(log *zap.Logger, uniqueID, modelName, pairKey string) *Simulator {
	return &Simulator{
		UniqueID:     uniqueID,
		ModelName:    modelName,
		FriendlyName: modelName,
		Manufacturer: "LG Electronics",
		PairKey:      pairKey,
		HTTPAddr:     ":8080",
		log:          log,
	}
}

// Start brings up the HTTP endpoints and the SSDP responder, then returns.
// Use Close to shut down.
func (s *Simulator) Start() error {
	listener, err := net.Listen("tcp", s.HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.HTTPAddr, err)
	}
	s.httpListener = listener
	s.httpServer = &http.Server{Handler: s.Handler()}
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Simulator HTTP server stopped", zap.Error(err))
		}
	}()
	s.log.Info("Simulator HTTP server listening",
		zap.String("addr", listener.Addr().String()))

	if err := s.startSSDP(); err != nil {
		s.Close()
		return err
	}
	return nil
}

// Close shuts the simulator down.
func (s *Simulator) Close() {
	if s.ssdpConn != nil {
		_ = s.ssdpConn.Close()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = s.httpServer.Shutdown(ctx)
		cancel()
	}
}

// HTTPPort returns the bound HTTP port, for tests using port 0.
func (s *Simulator) HTTPPort() int {
	if s.httpListener == nil {
		return 0
	}
	return s.httpListener.Addr().(*net.TCPAddr).Port
}

// Handler returns the simulator's HTTP handler. Exposed so tests can mount
// it on an httptest server.
func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(DescriptorPath, s.handleDescriptor)
	mux.HandleFunc(AuthPath, s.handleAuth)
	return mux
}

func (s *Simulator) handleDescriptor(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("target") != descriptorTarget {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?>
<envelope>
  <device>
    <deviceType>TV</deviceType>
    <modelName>%s</modelName>
    <friendlyName>%s</friendlyName>
    <manufacturer>%s</manufacturer>
    <uuid>%s</uuid>
  </device>
</envelope>
`, xmlEscape(s.ModelName), xmlEscape(s.FriendlyName), xmlEscape(s.Manufacturer), xmlEscape(s.UniqueID))
}

// authRequest is the XML body of a ROAP auth call.
type authRequest struct {
	XMLName xml.Name `xml:"auth"`
	Type    string   `xml:"type"`
	Value   string   `xml:"value"`
}

func (s *Simulator) handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var req authRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch req.Type {
	case "AuthKeyReq":
		// A real TV puts the PIN on screen; the simulator logs it
		s.log.Info("Pair key requested", zap.String("pair_key", s.PairKey))
		w.WriteHeader(http.StatusOK)
	case "AuthReq":
		if req.Value != s.PairKey {
			s.log.Info("Auth rejected", zap.String("value", req.Value))
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		session := fmt.Sprintf("%09d", rand.Intn(1_000_000_000))
		s.log.Info("Session created", zap.String("session", session))
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?>
<envelope><ROAPError>200</ROAPError><session>%s</session></envelope>
`, session)
	default:
		http.Error(w, "bad request", http.StatusBadRequest)
	}
}

// startSSDP joins the SSDP multicast group and answers matching M-SEARCH
// requests with a unicast reply pointing at the descriptor endpoint.
func (s *Simulator) startSSDP() error {
	group := &net.UDPAddr{IP: net.IPv4(239, 255, 255, 250), Port: 1900}
	conn, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return fmt.Errorf("failed to join SSDP multicast group: %w", err)
	}
	s.ssdpConn = conn
	go s.ssdpLoop()
	s.log.Info("Simulator SSDP responder listening", zap.String("group", group.String()))
	return nil
}

func (s *Simulator) ssdpLoop() {
	buf := make([]byte, 8192)
	for {
		n, raddr, err := s.ssdpConn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		request := string(buf[:n])
		if !strings.HasPrefix(request, "M-SEARCH") {
			continue
		}
		if !strings.Contains(request, discovery.SearchTarget) &&
			!strings.Contains(request, "ssdp:all") {
			continue
		}
		s.log.Debug("M-SEARCH received", zap.String("remote_addr", raddr.String()))
		if _, err := s.ssdpConn.WriteToUDP(s.searchResponse(raddr), raddr); err != nil {
			s.log.Debug("SSDP reply send failed", zap.Error(err))
		}
	}
}

func (s *Simulator) searchResponse(raddr *net.UDPAddr) []byte {
	location := fmt.Sprintf("http://%s%s?target=%s",
		net.JoinHostPort(s.localIPFor(raddr), fmt.Sprintf("%d", s.HTTPPort())),
		DescriptorPath, descriptorTarget)
	return []byte(strings.Join([]string{
		"HTTP/1.1 200 OK",
		"CACHE-CONTROL: max-age=1800",
		"EXT:",
		"LOCATION: " + location,
		"SERVER: Linux/2.6 UDAP/2.0 lgnetcast-sim/1.0",
		"ST: " + discovery.SearchTarget,
		"USN: uuid:" + s.UniqueID + ":" + discovery.SearchTarget,
		"", "",
	}, "\r\n"))
}

// localIPFor picks the local address that routes toward the requester, so
// the advertised location URL is reachable from their side.
func (s *Simulator) localIPFor(raddr *net.UDPAddr) string {
	conn, err := net.Dial("udp4", raddr.String())
	if err != nil {
		return "127.0.0.1"
	}
	defer func() { _ = conn.Close() }()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func xmlEscape(value string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}
