package discovery

// DeviceRecord is one discovered device, keyed by its stable unique id.
// It carries the most recent reply's headers plus the "upnp" enrichment
// fetched from the device's descriptor document. Records are only ever
// overwritten, never deleted, for the lifetime of the Scanner.
type DeviceRecord struct {
	// UniqueID is derived from the USN header (second colon segment)
	UniqueID string

	// Headers holds the latest reply's header fields, lower-cased keys
	Headers map[string]string

	// UPnP holds descriptor metadata (deviceType, modelName, friendlyName,
	// manufacturer, uuid). Nil or missing keys mean the descriptor was
	// unavailable or did not carry the field.
	UPnP map[string]string
}

// Location returns the descriptor URL from the latest reply.
func (r DeviceRecord) Location() string {
	return r.Headers["location"]
}

// Host returns the hostname part of the latest reply's location URL.
func (r DeviceRecord) Host() string {
	return hostnameOf(r.Location())
}

// ServiceType returns the ST header from the latest reply.
func (r DeviceRecord) ServiceType() string {
	return r.Headers["st"]
}

// ModelName returns the descriptor's model name, or "" if unavailable.
func (r DeviceRecord) ModelName() string {
	return r.UPnP["modelName"]
}

// clone returns a deep copy so snapshots cannot race with merges.
func (r DeviceRecord) clone() DeviceRecord {
	out := DeviceRecord{UniqueID: r.UniqueID}
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	if r.UPnP != nil {
		out.UPnP = make(map[string]string, len(r.UPnP))
		for k, v := range r.UPnP {
			out.UPnP[k] = v
		}
	}
	return out
}
