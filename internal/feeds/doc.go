// Package feeds reconciles the asynchronously loaded track collections shown by
// the client: the catalog browse, per-genre listings and the recommendation
// variants.
//
// # Feeds
//
// A [Feed] is a named, independently loadable ordered collection of tracks with
// its own status machine (idle, loading, ready, failed). Feeds are keyed by
// kind ("catalog", "hybrid", "for-you", "popular", "genre:<name>",
// "similar:<trackId>") and every fetch replaces the keyed feed's items
// wholesale in server order; there is no incremental merge.
//
// # Supersession
//
// A fetch issued while one is already in flight for the same key does not queue
// behind it. Each feed key carries a monotonically increasing request counter;
// when a call completes, its result is applied only if no newer request was
// issued for that key in the meantime. A slower earlier response can therefore
// never clobber a faster later one. The superseded request is not cancelled at
// the transport level; it completes and its result is dropped.
//
// # Interaction relay
//
// The play/like/skip operations are fire-and-forget telemetry for the
// recommender. Failures are logged and swallowed: they never surface to the
// caller, never block, and never revert the optimistic liked flag.
package feeds
