// Package radarr provides the HTTP gateway to registered movie servers.
//
// # Overview
//
// A Client resolves a server id through the registry, builds the request URL
// from the server's base uri and authenticates with the server's API key.
// The package is split into three files:
//
//   - client.go: request building, timeout handling, circuit breaking
//   - types.go: data structures mirroring the server API
//   - errors.go: TimeoutError and NetworkError
//
// # Client Usage
//
//	client := radarr.NewClient(registry, radarr.WithTimeout(2*time.Second))
//
//	movies, err := client.FetchMovies(ctx, serverID)
//	if err != nil {
//		log.Printf("movie fetch failed: %v", err)
//	}
//
// # API Endpoints
//
//   - GET {uri}/movie: every movie in the library
//   - GET {uri}/queue: active downloads (array or paged records)
//   - GET {uri}/wanted/missing: missing movies, paged
//
// Every request carries the X-Api-Key header.
//
// # Wanted List
//
// The wanted endpoint requires a page size. FetchWanted first asks for
// pageSize=0 to learn totalRecords and then repeats the query with
// pageSize=totalRecords. The second request depends on the first, so the two
// are always sequential.
//
// # Timeouts
//
// Callers wait at most the client timeout (2 seconds by default) and then
// receive a *TimeoutError. The request itself is not cancelled: it keeps
// running until the transport timeout and its response is dropped. Context
// cancellation (process shutdown) still aborts the request.
//
// # Error Handling
//
//   - *server.NotFoundError: the server id is no longer registered
//   - *TimeoutError: no response within the client timeout
//   - *NetworkError: transport failure, HTTP status >= 400, malformed JSON,
//     an open circuit breaker (wraps gobreaker.ErrOpenState) or a cancelled
//     context (wraps context.Canceled)
//
// # Circuit Breaking
//
// Each server gets its own breaker. Five consecutive failures open it and
// further requests fail fast for 30 seconds. ResetServer discards the
// breaker after a server is edited or removed.
package radarr
