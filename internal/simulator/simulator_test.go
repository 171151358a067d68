package simulator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/splinter98/lgnetcast/internal/discovery"
	"github.com/splinter98/lgnetcast/internal/netcast"
)

func testSimulator(t *testing.T) (*Simulator, *httptest.Server) {
	t.Helper()
	sim := New(zap.NewNop(), "1234", "MockLGModelName", "123456")
	server := httptest.NewServer(sim.Handler())
	t.Cleanup(server.Close)
	return sim, server
}

func TestSimulatorDescriptor(t *testing.T) {
	_, server := testSimulator(t)

	location := server.URL + DescriptorPath + "?target=netrcu.xml"
	fields := discovery.NewDescriber(zap.NewNop()).Describe(context.Background(), location)
	if fields == nil {
		t.Fatal("Describe() = nil, the simulator's descriptor must be parseable")
	}

	if fields["modelName"] != "MockLGModelName" {
		t.Errorf("modelName = %q, want MockLGModelName", fields["modelName"])
	}
	if fields["uuid"] != "1234" {
		t.Errorf("uuid = %q, want 1234", fields["uuid"])
	}
	if fields["manufacturer"] != "LG Electronics" {
		t.Errorf("manufacturer = %q, want LG Electronics", fields["manufacturer"])
	}
}

func TestSimulatorDescriptorRequiresTarget(t *testing.T) {
	_, server := testSimulator(t)

	resp, err := http.Get(server.URL + DescriptorPath)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status without target = %d, want 404", resp.StatusCode)
	}
}

func TestSimulatorAuthAcceptsPairKey(t *testing.T) {
	_, server := testSimulator(t)

	client := netcast.NewClientWithURL(server.URL, "123456")
	session, err := client.GetSessionID(context.Background())
	if err != nil {
		t.Fatalf("GetSessionID() error = %v", err)
	}
	if session == "" {
		t.Error("GetSessionID() returned an empty session id")
	}
}

func TestSimulatorAuthRejectsWrongPairKey(t *testing.T) {
	_, server := testSimulator(t)

	client := netcast.NewClientWithURL(server.URL, "000000")
	_, err := client.GetSessionID(context.Background())

	var tokenErr *netcast.AccessTokenError
	if !errors.As(err, &tokenErr) {
		t.Errorf("GetSessionID() error = %v, want AccessTokenError", err)
	}
}

func TestSimulatorAuthPairKeyRequest(t *testing.T) {
	_, server := testSimulator(t)

	client := netcast.NewClientWithURL(server.URL, "")
	if err := client.DisplayPairKey(context.Background()); err != nil {
		t.Errorf("DisplayPairKey() error = %v", err)
	}
}

func TestSimulatorAuthRejectsUnknownRequests(t *testing.T) {
	_, server := testSimulator(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown type", `<auth><type>SomethingElse</type></auth>`, http.StatusBadRequest},
		{"malformed xml", `<auth><type>`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+AuthPath, "application/atom+xml",
				strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("Post() error = %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestSimulatorAuthRejectsGet(t *testing.T) {
	_, server := testSimulator(t)

	resp, err := http.Get(server.URL + AuthPath)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status for GET = %d, want 405", resp.StatusCode)
	}
}

func TestSimulatorSearchResponseParses(t *testing.T) {
	sim, _ := testSimulator(t)

	raddr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 51234}
	reply, ok := discovery.ParseReply(sim.searchResponse(raddr))
	if !ok {
		t.Fatal("search response did not parse as an SSDP reply")
	}
	if reply.ServiceType() != discovery.SearchTarget {
		t.Errorf("ServiceType() = %q, want %q", reply.ServiceType(), discovery.SearchTarget)
	}
	if reply.UniqueID() != "1234" {
		t.Errorf("UniqueID() = %q, want 1234", reply.UniqueID())
	}
	if !strings.Contains(reply.Location(), DescriptorPath) {
		t.Errorf("Location() = %q, want the descriptor endpoint", reply.Location())
	}
}
