// Package gateway is the single outbound channel to the MusicRec backend.
//
// # Client
//
// [Client] wraps one *http.Client and the backend base URL. Every request flows
// through the same helper, which attaches the bearer token obtained from a
// [TokenSource] and inspects every response before the caller sees it.
//
// # Session invalidation
//
// A 401 on any call that carried a token clears the session through
// [TokenSource.Invalidate] and is still returned to the caller as a failure
// wrapping [shared.ErrSessionExpired]. A 401 on an unauthenticated call (a failed
// login attempt) is an ordinary [shared.ErrAuthFailed]; it never touches session
// state. Navigation consequences are the caller's problem.
//
// # Error Handling
//
// The gateway performs no retries and no caching. FastAPI error bodies of the form
// {"detail": "..."} are unwrapped into the returned error message. Sentinel errors
// from the shared package classify failures:
//   - [shared.ErrAuthFailed] : rejected credentials on /auth endpoints
//   - [shared.ErrSessionExpired] : 401 on an authenticated call
//   - [shared.ErrAPIRequest] : any other non-2xx response
//
// # Endpoint surface
//
// Typed methods cover the fixed backend contract: auth (signup/login/me), the
// music catalog (tracks/genres/search/history), interaction logging
// (play/like/skip), the recommendation variants (hybrid/for-you/popular/similar
// and per-genre), and the analytics endpoints consumed for display. [Client.Get]
// and [Client.Post] expose the raw transport for the `mrx api` command.
package gateway
