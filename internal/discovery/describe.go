package discovery

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DescriptorTimeout is the fixed timeout for one descriptor fetch,
	// independent of the discovery sweep's own timing.
	DescriptorTimeout = 10 * time.Second

	// descriptorUserAgent is the UDAP agent string NetCast devices expect
	descriptorUserAgent = "UDAP/2.0"

	// maxDescriptorSize caps how much of a descriptor body is read
	maxDescriptorSize = 1 << 20
)

// Describer fetches and parses device descriptor documents.
//
// TLS verification is disabled: discovered devices commonly present
// self-signed certificates or none at all.
type Describer struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	log *zap.Logger
}

// NewDescriber creates a descriptor fetcher with the default client.
func NewDescriber(log *zap.Logger) *Describer {
	return &Describer{
		HTTPClient: &http.Client{
			Timeout: DescriptorTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		log: log,
	}
}

// descriptorEnvelope is the expected top-level shape of a NetCast
// descriptor document.
type descriptorEnvelope struct {
	XMLName xml.Name         `xml:"envelope"`
	Device  descriptorDevice `xml:"device"`
}

type descriptorDevice struct {
	DeviceType   string `xml:"deviceType"`
	ModelName    string `xml:"modelName"`
	FriendlyName string `xml:"friendlyName"`
	Manufacturer string `xml:"manufacturer"`
	UUID         string `xml:"uuid"`
}

// Describe retrieves the descriptor document at location and returns the
// device metadata fields present in it.
//
// Any failure - network error, timeout, non-200 status, empty body,
// malformed XML, or a document whose root is not the expected envelope -
// yields nil. Failures are logged and never propagated: a device without a
// readable descriptor is still a device, just an unenriched one.
func (d *Describer) Describe(ctx context.Context, location string) map[string]string {
	body, err := d.fetch(ctx, location)
	if err != nil {
		d.log.Debug("Descriptor fetch failed",
			zap.String("location", location), zap.Error(err))
		return nil
	}
	if len(body) == 0 {
		d.log.Debug("Descriptor body empty", zap.String("location", location))
		return nil
	}

	var envelope descriptorEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		d.log.Debug("Descriptor parse failed",
			zap.String("location", location), zap.Error(err))
		return nil
	}

	dev := envelope.Device
	fields := map[string]string{
		"deviceType":   dev.DeviceType,
		"modelName":    dev.ModelName,
		"friendlyName": dev.FriendlyName,
		"manufacturer": dev.Manufacturer,
		"uuid":         dev.UUID,
	}
	// Absent fields stay absent; defaulting is the caller's job
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

func (d *Describer) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", descriptorUserAgent)

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
}
