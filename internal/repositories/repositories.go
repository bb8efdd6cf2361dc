// Package repositories implements SQLite persistence for the client's local
// state.
//
// Two stores live here:
//   - [TokenRepository] : the durable credential slot backing session restore
//   - [TrackRepository] : a cache of tracks seen in feed responses, queryable
//     offline by genre
//
// Both operate on the connection opened by shared.NewDatabase and the schema
// installed by shared.RunMigrations.
package repositories
