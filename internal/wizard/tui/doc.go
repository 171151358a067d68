// Package tui implements the interactive setup wizard.
//
// The wizard is a thin bubbletea frontend over the setupflow state
// machine: every screen corresponds to a flow step (host entry, device
// pick list, PIN entry), user submissions are fed into the flow, and the
// returned outcomes decide the next screen. Created entries are persisted
// through the entries store.
package tui
