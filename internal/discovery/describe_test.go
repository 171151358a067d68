package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const mockDescriptor = `<?xml version="1.0" encoding="utf-8"?>
<envelope>
  <device>
    <deviceType>TV</deviceType>
    <modelName>MockLGModelName</modelName>
    <friendlyName>Living Room TV</friendlyName>
    <manufacturer>LG Electronics</manufacturer>
    <uuid>1234</uuid>
  </device>
</envelope>
`

func descriptorServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestDescribe(t *testing.T) {
	server := descriptorServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "UDAP/2.0" {
			t.Errorf("User-Agent = %q, want UDAP/2.0", got)
		}
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(mockDescriptor))
	})

	fields := NewDescriber(zap.NewNop()).Describe(context.Background(), server.URL)
	if fields == nil {
		t.Fatal("Describe() = nil, want device fields")
	}

	want := map[string]string{
		"deviceType":   "TV",
		"modelName":    "MockLGModelName",
		"friendlyName": "Living Room TV",
		"manufacturer": "LG Electronics",
		"uuid":         "1234",
	}
	for key, value := range want {
		if fields[key] != value {
			t.Errorf("fields[%q] = %q, want %q", key, fields[key], value)
		}
	}
	if len(fields) != len(want) {
		t.Errorf("Describe() returned %d fields, want %d", len(fields), len(want))
	}
}

func TestDescribeDropsEmptyFields(t *testing.T) {
	server := descriptorServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<envelope><device><modelName>MockLGModelName</modelName></device></envelope>`))
	})

	fields := NewDescriber(zap.NewNop()).Describe(context.Background(), server.URL)
	if fields == nil {
		t.Fatal("Describe() = nil, want device fields")
	}
	if fields["modelName"] != "MockLGModelName" {
		t.Errorf("fields[modelName] = %q, want MockLGModelName", fields["modelName"])
	}
	if _, present := fields["friendlyName"]; present {
		t.Error("fields contains friendlyName, want it absent")
	}
}

func TestDescribeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}},
		{"malformed xml", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<envelope><device>`))
		}},
		{"wrong root element", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<root><device><modelName>X</modelName></device></root>`))
		}},
	}

	describer := NewDescriber(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := descriptorServer(t, tt.handler)
			if fields := describer.Describe(context.Background(), server.URL); fields != nil {
				t.Errorf("Describe() = %v, want nil", fields)
			}
		})
	}
}

func TestDescribeUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	location := server.URL
	server.Close()

	if fields := NewDescriber(zap.NewNop()).Describe(context.Background(), location); fields != nil {
		t.Errorf("Describe() = %v, want nil for a closed server", fields)
	}
}
