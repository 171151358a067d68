// Package discovery locates LG NetCast TVs on the local network.
//
// NetCast devices answer SSDP-style multicast search requests for the
// service type "urn:schemas-udap:service:netrcu:1". This package fans
// search probes out across every usable network interface, deduplicates
// replies by unique device id, and enriches each device with metadata from
// its XML descriptor document.
//
// # Discovery Process
//
// A sweep works as follows:
//  1. Enumerate eligible IPv4 source addresses (BuildSourceSet)
//  2. Bind one search listener per source and confirm readiness
//  3. Fire search bursts at 239.255.255.250:1900, retried to absorb
//     packet loss
//  4. Merge every reply into the registry keyed by the USN-derived id
//  5. Fetch each device's descriptor for model/manufacturer metadata
//  6. Return a snapshot of everything found so far
//
// # Usage Example
//
//	scanner := discovery.NewScanner(logger)
//	records := scanner.Discover(ctx)
//	for _, rec := range records {
//	    fmt.Printf("Found: %s at %s (model %s)\n",
//	        rec.UniqueID, rec.Host(), rec.ModelName())
//	}
//
// # Failure Model
//
// Nothing in this package is fatal. Listener bind failures drop that
// listener and keep the rest of the pool going; descriptor fetch failures
// leave the device unenriched; a sweep with zero replies returns an empty
// snapshot. Every failure is observable via the logger only.
//
// # Thread Safety
//
// A Scanner is safe for concurrent use. Listeners post replies onto an
// internal queue consumed by a single merge goroutine, so the registry is
// never mutated concurrently; the merge itself is idempotent, so repeated
// replies for the same device never produce duplicate records.
package discovery
