// Package session owns the authenticated identity for the MusicRec client.
//
// [Session] is the single holder of the bearer token and the lazily-fetched user
// record. It is created once at startup by [Restore], which reads the durable
// token slot, and is passed by reference to the gateway (as its TokenSource) and
// to [Store]. There are no package-level singletons; whoever constructs the
// Session owns its lifetime.
//
// [Store] layers the account operations on top: signup, login, logout and the
// best-effort current-user refresh. Signup and login report failure through a
// boolean result plus a recorded message and never panic or return an error to
// the caller.
//
// The invariant maintained throughout: the session is authenticated exactly when
// a token is present, and a user record is never retained without a token.
package session
