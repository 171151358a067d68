// Package netcast implements the LG NetCast (ROAP) session protocol.
//
// Pairing with a NetCast TV is a two-step dance over plain HTTP+XML on
// port 8080:
//
//  1. AuthKeyReq - the TV displays a short pairing PIN on screen
//  2. AuthReq with that PIN - the TV answers with a session id
//
// The Client exposes exactly that: GetSessionID with no token set triggers
// the on-screen PIN and returns an AccessTokenError; GetSessionID with a
// token either returns the session id, an AccessTokenError (PIN rejected),
// or a SessionError (unreachable, timeout, unusable answer). Callers
// classify outcomes with errors.As.
package netcast
