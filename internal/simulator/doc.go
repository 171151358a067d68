// Package simulator emulates an LG NetCast TV for development and testing.
//
// The simulator answers SSDP M-SEARCH probes for the netrcu service type,
// serves the device descriptor document, and accepts a configured pairing
// PIN at the ROAP auth endpoint - enough surface to run the whole
// discovery and setup pipeline on a workstation without a TV on the
// network.
package simulator
