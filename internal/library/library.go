package library

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/five82/marquee/internal/observe"
	"github.com/five82/marquee/internal/radarr"
	"github.com/five82/marquee/internal/server"
)

// Servers is the part of the registry the library depends on.
type Servers interface {
	Get(id int) (server.Server, error)
	IDs() []int
}

// Movie is a library movie tagged with the server it came from.
type Movie struct {
	ServerID int `json:"serverId"`
	radarr.Movie
}

// File is a downloaded movie file.
type File struct {
	ServerID int    `json:"serverId"`
	ImdbID   string `json:"imdbId"`
	radarr.MovieFile
}

// QueueEntry is an active download.
type QueueEntry struct {
	ServerID int    `json:"serverId"`
	ImdbID   string `json:"imdbId"`
	radarr.QueueItem
}

// Image is a piece of movie artwork.
type Image struct {
	ServerID int    `json:"serverId"`
	ImdbID   string `json:"imdbId"`
	radarr.Image
}

// Ref points at a movie of a server.
type Ref struct {
	ServerID int    `json:"serverId"`
	ImdbID   string `json:"imdbId"`
}

func (m Movie) owner() int      { return m.ServerID }
func (f File) owner() int       { return f.ServerID }
func (q QueueEntry) owner() int { return q.ServerID }
func (i Image) owner() int      { return i.ServerID }
func (r Ref) owner() int        { return r.ServerID }

// Status describes the sync history of one server.
type Status struct {
	LastSynced          time.Time
	LastAttempt         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the server failed several syncs in a row.
func (s Status) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Snapshot is a copy of the library contents.
type Snapshot struct {
	Movies []Movie
	Files  []File
	Queue  []QueueEntry
	Wanted []Ref
	Images []Image
	Status map[int]Status
}

// Library holds the synced data of every server as flat collections.
type Library struct {
	servers Servers
	fetcher radarr.Fetcher
	log     zerolog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	movies  []Movie
	files   []File
	queue   []QueueEntry
	wanted  []Ref
	images  []Image
	status  map[int]Status
	onError func(serverID int, err error)

	observers observe.Set
}

// Option customises a Library.
type Option func(*Library)

// WithLogger sets the library logger.
func WithLogger(l zerolog.Logger) Option {
	return func(lib *Library) {
		lib.log = l
	}
}

// WithClock overrides the time source used for sync timestamps.
func WithClock(now func() time.Time) Option {
	return func(lib *Library) {
		if now != nil {
			lib.now = now
		}
	}
}

// New returns an empty library fetching through fetcher.
func New(servers Servers, fetcher radarr.Fetcher, opts ...Option) *Library {
	lib := &Library{
		servers: servers,
		fetcher: fetcher,
		log:     zerolog.Nop(),
		now:     time.Now,
		status:  make(map[int]Status),
	}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// OnError registers the callback receiving sync failures.
func (l *Library) OnError(fn func(serverID int, err error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = fn
}

// Sync refreshes one server and reports whether it succeeded.
func (l *Library) Sync(ctx context.Context, serverID int) bool {
	return l.SyncErr(ctx, serverID) == nil
}

// SyncErr fetches movies, queue and the wanted list of a server and replaces
// that server's data in one step. Nothing changes unless every fetch succeeds.
func (l *Library) SyncErr(ctx context.Context, serverID int) error {
	if _, err := l.servers.Get(serverID); err != nil {
		l.report(serverID, err)
		return err
	}

	movies, err := l.fetcher.FetchMovies(ctx, serverID)
	if err != nil {
		return l.fail(serverID, fmt.Errorf("fetch movies: %w", err))
	}
	queue, err := l.fetcher.FetchQueue(ctx, serverID)
	if err != nil {
		return l.fail(serverID, fmt.Errorf("fetch queue: %w", err))
	}
	wanted, err := l.fetcher.FetchWanted(ctx, serverID)
	if err != nil {
		return l.fail(serverID, fmt.Errorf("fetch wanted: %w", err))
	}

	staged := stage(serverID, movies, queue, wanted.Records)
	now := l.now()

	// The server may have been removed while the requests were in flight.
	// Checked under mu so a concurrent Remove either drops the result here
	// or clears it after the swap.
	l.mu.Lock()
	if _, err := l.servers.Get(serverID); err != nil {
		l.mu.Unlock()
		l.report(serverID, err)
		return err
	}
	l.movies = append(dropServer(l.movies, serverID), staged.Movies...)
	l.files = append(dropServer(l.files, serverID), staged.Files...)
	l.queue = append(dropServer(l.queue, serverID), staged.Queue...)
	l.wanted = append(dropServer(l.wanted, serverID), staged.Wanted...)
	l.images = append(dropServer(l.images, serverID), staged.Images...)
	l.status[serverID] = Status{LastSynced: now, LastAttempt: now}
	l.mu.Unlock()

	l.log.Debug().
		Int("server", serverID).
		Int("movies", len(staged.Movies)).
		Int("queue", len(staged.Queue)).
		Int("wanted", len(staged.Wanted)).
		Msg("server synced")
	l.observers.Notify()
	return nil
}

// SyncAll syncs every registered server concurrently and waits for all of
// them. Individual results are discarded.
func (l *Library) SyncAll(ctx context.Context) {
	var wg conc.WaitGroup
	for _, id := range l.servers.IDs() {
		wg.Go(func() {
			l.Sync(ctx, id)
		})
	}
	wg.Wait()
}

// Remove drops every entry belonging to a server.
func (l *Library) Remove(serverID int) {
	l.mu.Lock()
	l.movies = dropServer(l.movies, serverID)
	l.files = dropServer(l.files, serverID)
	l.queue = dropServer(l.queue, serverID)
	l.wanted = dropServer(l.wanted, serverID)
	l.images = dropServer(l.images, serverID)
	delete(l.status, serverID)
	l.mu.Unlock()

	l.observers.Notify()
}

// Snapshot returns a copy of the library contents.
func (l *Library) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	status := make(map[int]Status, len(l.status))
	for id, st := range l.status {
		status[id] = st
	}
	return Snapshot{
		Movies: slices.Clone(l.movies),
		Files:  slices.Clone(l.files),
		Queue:  slices.Clone(l.queue),
		Wanted: slices.Clone(l.wanted),
		Images: slices.Clone(l.images),
		Status: status,
	}
}

// Status returns the sync status of a server.
func (l *Library) Status(serverID int) (Status, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, ok := l.status[serverID]
	return st, ok
}

// MovieIDs returns the imdb ids of every movie.
func (l *Library) MovieIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.movies))
	for _, m := range l.movies {
		ids = append(ids, m.ImdbID)
	}
	return ids
}

// MoviesWithFileByNew returns downloaded files ordered by the date they were
// added, oldest first. Files added at the same time keep their stored order.
func (l *Library) MoviesWithFileByNew() []File {
	l.mu.RLock()
	files := slices.Clone(l.files)
	l.mu.RUnlock()

	slices.SortStableFunc(files, func(a, b File) int {
		return a.ParsedDateAdded().Compare(b.ParsedDateAdded())
	})
	return files
}

// QueuedByProgress returns the queue ordered by remaining size, smallest
// first.
func (l *Library) QueuedByProgress() []QueueEntry {
	l.mu.RLock()
	queue := slices.Clone(l.queue)
	l.mu.RUnlock()

	slices.SortStableFunc(queue, func(a, b QueueEntry) int {
		return cmp.Compare(a.Sizeleft, b.Sizeleft)
	})
	return queue
}

// Movie looks up a movie by server and imdb id.
func (l *Library) Movie(serverID int, imdbID string) (Movie, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, m := range l.movies {
		if m.ServerID == serverID && m.ImdbID == imdbID {
			return m, true
		}
	}
	return Movie{}, false
}

// File looks up the downloaded file of a movie.
func (l *Library) File(serverID int, imdbID string) (File, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, f := range l.files {
		if f.ServerID == serverID && f.ImdbID == imdbID {
			return f, true
		}
	}
	return File{}, false
}

// Images returns the artwork of a movie.
func (l *Library) Images(serverID int, imdbID string) []Image {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Image
	for _, img := range l.images {
		if img.ServerID == serverID && img.ImdbID == imdbID {
			out = append(out, img)
		}
	}
	return out
}

// WantedMovies joins the wanted list with the movies it refers to.
func (l *Library) WantedMovies() []Movie {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Movie, 0, len(l.wanted))
	for _, ref := range l.wanted {
		for _, m := range l.movies {
			if m.ServerID == ref.ServerID && m.ImdbID == ref.ImdbID {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Subscribe registers fn to run after every change. The returned function
// removes the subscription.
func (l *Library) Subscribe(fn func()) (cancel func()) {
	return l.observers.Subscribe(fn)
}

func (l *Library) fail(serverID int, err error) error {
	now := l.now()
	l.mu.Lock()
	if _, lookupErr := l.servers.Get(serverID); lookupErr == nil {
		st := l.status[serverID]
		st.LastAttempt = now
		st.LastError = err
		st.ConsecutiveFailures++
		l.status[serverID] = st
	}
	l.mu.Unlock()

	l.log.Warn().Err(err).Int("server", serverID).Msg("sync failed")
	l.report(serverID, err)
	l.observers.Notify()
	return err
}

func (l *Library) report(serverID int, err error) {
	l.mu.RLock()
	fn := l.onError
	l.mu.RUnlock()
	if fn != nil {
		fn(serverID, err)
	}
}

func stage(serverID int, movies []radarr.Movie, queue []radarr.QueueItem, wanted []radarr.Movie) Snapshot {
	var s Snapshot
	s.Movies = make([]Movie, 0, len(movies))
	for _, m := range movies {
		s.Movies = append(s.Movies, Movie{ServerID: serverID, Movie: m})
		if m.HasFile && m.MovieFile != nil {
			s.Files = append(s.Files, File{ServerID: serverID, ImdbID: m.ImdbID, MovieFile: *m.MovieFile})
		}
		for _, img := range m.Images {
			s.Images = append(s.Images, Image{ServerID: serverID, ImdbID: m.ImdbID, Image: img})
		}
	}
	for _, item := range queue {
		entry := QueueEntry{ServerID: serverID, QueueItem: item}
		if item.Movie != nil {
			entry.ImdbID = item.Movie.ImdbID
		}
		s.Queue = append(s.Queue, entry)
	}
	for _, m := range wanted {
		s.Wanted = append(s.Wanted, Ref{ServerID: serverID, ImdbID: m.ImdbID})
	}
	return s
}

func dropServer[T interface{ owner() int }](items []T, serverID int) []T {
	return slices.DeleteFunc(items, func(v T) bool { return v.owner() == serverID })
}
