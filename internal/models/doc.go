// Package models defines the data model shared by the MusicRec client packages.
//
// The package contains two categories of types:
//
// 1. Server-provided entities, decoded from backend JSON:
//   - [Track] : catalog metadata plus per-feed recommendation annotations
//   - [User] : the authenticated account identity
//   - [HistoryEntry] : a row from the listening history endpoint
//
// 2. Interaction payloads, encoded for the backend:
//   - [PlayEvent] : a track play with duration and completion
//   - [LikeEvent] : a track like
//   - [SkipEvent] : a track skip with playback position
//
// The acting user is never carried in the payloads; the backend derives it from the
// bearer token on the request.
package models
