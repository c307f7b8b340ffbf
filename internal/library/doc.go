// Package library keeps the movies, files, download queue, wanted list and
// artwork synced from every registered server.
//
// # Overview
//
// Each collection is a flat slice whose entries carry the id of the server
// they came from. Views join them at read time by linear scan. A sync
// replaces one server's entries and never merges them.
//
//	Sync(ctx, id):                    UI:
//	┌──────────────────┐             ┌──────────────────────┐
//	│ FetchMovies()    │             │                      │
//	│ FetchQueue()     │             │                      │
//	│ FetchWanted()    │             │                      │
//	│      ↓           │             │                      │
//	│ stage + swap     │────────────→│ MoviesWithFileByNew()│
//	│      ↓           │   (mutex)   │ QueuedByProgress()   │
//	│ notify()         │             │ Snapshot()           │
//	└──────────────────┘             └──────────────────────┘
//
// # Sync Semantics
//
// All three fetches must succeed before anything changes. A failing fetch
// leaves the previous data of that server in place, records the error in the
// server's Status and is passed to the OnError callback.
//
//	lib.Sync(ctx, 0)   // true, server 0 replaced
//	lib.Sync(ctx, 99)  // false, unknown server, nothing changes
//
// SyncAll runs one sync per registered server concurrently and returns once
// every one of them has finished. Syncs of different servers touch disjoint
// entries so they never interfere.
//
// # Derived Views
//
//   - MovieIDs: imdb ids of all movies
//   - MoviesWithFileByNew: files by date added, oldest first
//   - QueuedByProgress: downloads by remaining size, smallest first
//   - WantedMovies: the wanted list joined with its movies
//
// Both sorts are stable. Views are computed on every call and return copies.
//
// # Concurrency Model
//
// Collections are guarded by a sync.RWMutex held only while copying.
// Network I/O happens outside the lock. Subscribers and the error callback
// run after the lock is released.
package library
