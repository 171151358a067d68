// Package entries persists configured NetCast TVs as a small YAML file in
// the user's config directory.
//
// The store is the reference host-collaborator for the setup flow: it
// answers "which device ids are already configured" during discovery
// candidate filtering, and finalizes a flow's created entry. Writes are
// atomic (temp file + rename) so a crash never corrupts the file.
package entries
