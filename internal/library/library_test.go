package library

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/marquee/internal/radarr"
	"github.com/five82/marquee/internal/server"
)

type fakeFetcher struct {
	mu     sync.Mutex
	movies map[int][]radarr.Movie
	queue  map[int][]radarr.QueueItem
	wanted map[int][]radarr.Movie
	fail   map[string]error
	calls  int

	beforeWanted func()
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		movies: make(map[int][]radarr.Movie),
		queue:  make(map[int][]radarr.QueueItem),
		wanted: make(map[int][]radarr.Movie),
		fail:   make(map[string]error),
	}
}

func (f *fakeFetcher) FetchMovies(_ context.Context, id int) ([]radarr.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fail["movie"]; err != nil {
		return nil, err
	}
	return f.movies[id], nil
}

func (f *fakeFetcher) FetchQueue(_ context.Context, id int) ([]radarr.QueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fail["queue"]; err != nil {
		return nil, err
	}
	return f.queue[id], nil
}

func (f *fakeFetcher) FetchWanted(_ context.Context, id int) (radarr.WantedPage, error) {
	if f.beforeWanted != nil {
		f.beforeWanted()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fail["wanted"]; err != nil {
		return radarr.WantedPage{}, err
	}
	records := f.wanted[id]
	return radarr.WantedPage{TotalRecords: len(records), Records: records}, nil
}

func (f *fakeFetcher) setFail(endpoint string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[endpoint] = err
}

func withFile(imdbID, added string) radarr.Movie {
	return radarr.Movie{
		ImdbID:    imdbID,
		HasFile:   true,
		MovieFile: &radarr.MovieFile{DateAdded: added},
		Images:    []radarr.Image{{CoverType: "poster", URL: "/" + imdbID + ".jpg"}},
	}
}

func newFixture(t *testing.T, servers int) (*server.Registry, *fakeFetcher, *Library) {
	t.Helper()
	reg := server.NewRegistry()
	for i := 0; i < servers; i++ {
		key := string(rune('a' + i))
		if _, err := reg.Add(server.Server{Name: "Box " + key, URI: "http://" + key, APIKey: key}); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}
	f := newFakeFetcher()
	return reg, f, New(reg, f)
}

func TestSync_ReplacesServerSlice(t *testing.T) {
	_, f, lib := newFixture(t, 1)
	f.movies[0] = []radarr.Movie{
		withFile("tt1", "2020-01-01T00:00:00Z"),
		{ImdbID: "tt2"},
	}
	f.queue[0] = []radarr.QueueItem{{ID: 1, Sizeleft: 5, Movie: &radarr.Movie{ImdbID: "tt2"}}}
	f.wanted[0] = []radarr.Movie{{ImdbID: "tt2"}}

	if !lib.Sync(context.Background(), 0) {
		t.Fatalf("Sync returned false")
	}

	snap := lib.Snapshot()
	if len(snap.Movies) != 2 || len(snap.Files) != 1 || len(snap.Queue) != 1 || len(snap.Wanted) != 1 || len(snap.Images) != 1 {
		t.Fatalf("snapshot = %+v, want 2 movies 1 file 1 queue 1 wanted 1 image", snap)
	}
	if snap.Queue[0].ImdbID != "tt2" || snap.Files[0].ImdbID != "tt1" {
		t.Fatalf("tags = queue %q file %q, want tt2 tt1", snap.Queue[0].ImdbID, snap.Files[0].ImdbID)
	}
	if got := lib.WantedMovies(); len(got) != 1 || got[0].ImdbID != "tt2" {
		t.Fatalf("WantedMovies = %#v, want tt2", got)
	}

	f.movies[0] = []radarr.Movie{{ImdbID: "tt3"}}
	f.queue[0] = nil
	f.wanted[0] = nil
	if !lib.Sync(context.Background(), 0) {
		t.Fatalf("second Sync returned false")
	}
	if got := lib.MovieIDs(); !reflect.DeepEqual(got, []string{"tt3"}) {
		t.Fatalf("MovieIDs = %v, want [tt3]", got)
	}
	if snap := lib.Snapshot(); len(snap.Files) != 0 || len(snap.Queue) != 0 || len(snap.Images) != 0 {
		t.Fatalf("stale entries survived: %+v", snap)
	}
	if st, ok := lib.Status(0); !ok || st.LastSynced.IsZero() || st.LastError != nil {
		t.Fatalf("Status = %+v, want synced without error", st)
	}
}

func TestSync_UnknownServerChangesNothing(t *testing.T) {
	_, f, lib := newFixture(t, 1)
	f.movies[0] = []radarr.Movie{{ImdbID: "tt1"}}
	if !lib.Sync(context.Background(), 0) {
		t.Fatalf("Sync returned false")
	}
	before := lib.Snapshot()
	calls := f.calls

	var reported error
	lib.OnError(func(_ int, err error) { reported = err })

	err := lib.SyncErr(context.Background(), 42)
	if !server.IsNotFound(err) {
		t.Fatalf("SyncErr = %v, want NotFoundError", err)
	}
	if lib.Sync(context.Background(), 42) {
		t.Fatalf("Sync(42) returned true")
	}
	if f.calls != calls {
		t.Fatalf("fetch calls = %d, want %d", f.calls, calls)
	}
	if !reflect.DeepEqual(lib.Snapshot(), before) {
		t.Fatalf("snapshot changed after unknown server sync")
	}
	if !server.IsNotFound(reported) {
		t.Fatalf("OnError got %v, want NotFoundError", reported)
	}
}

func TestSync_PartialFailureKeepsPreviousData(t *testing.T) {
	_, f, lib := newFixture(t, 1)
	f.movies[0] = []radarr.Movie{{ImdbID: "tt1"}}
	if !lib.Sync(context.Background(), 0) {
		t.Fatalf("Sync returned false")
	}

	f.movies[0] = []radarr.Movie{{ImdbID: "tt9"}}
	boom := &radarr.TimeoutError{ServerID: 0, Endpoint: "wanted/missing", After: 2 * time.Second}
	f.setFail("wanted", boom)

	err := lib.SyncErr(context.Background(), 0)
	if !radarr.IsTimeout(err) {
		t.Fatalf("SyncErr = %v, want TimeoutError", err)
	}
	if got := lib.MovieIDs(); !reflect.DeepEqual(got, []string{"tt1"}) {
		t.Fatalf("MovieIDs = %v, want previous [tt1]", got)
	}
	st, _ := lib.Status(0)
	if st.ConsecutiveFailures != 1 || !errors.Is(st.LastError, boom) {
		t.Fatalf("Status = %+v, want one failure recording the timeout", st)
	}

	f.setFail("wanted", nil)
	if !lib.Sync(context.Background(), 0) {
		t.Fatalf("Sync after recovery returned false")
	}
	if st, _ := lib.Status(0); st.ConsecutiveFailures != 0 || st.IsOffline() {
		t.Fatalf("Status after recovery = %+v, want reset", st)
	}
}

func TestSyncAll_ServersDoNotInterfere(t *testing.T) {
	_, f, lib := newFixture(t, 2)
	f.movies[0] = []radarr.Movie{{ImdbID: "a1"}, {ImdbID: "a2"}}
	f.movies[1] = []radarr.Movie{{ImdbID: "b1"}}

	lib.SyncAll(context.Background())

	if _, ok := lib.Movie(0, "a2"); !ok {
		t.Fatalf("Movie(0, a2) missing")
	}
	if _, ok := lib.Movie(1, "b1"); !ok {
		t.Fatalf("Movie(1, b1) missing")
	}
	if _, ok := lib.Movie(1, "a1"); ok {
		t.Fatalf("Movie(1, a1) should belong to server 0 only")
	}
	if got := len(lib.MovieIDs()); got != 3 {
		t.Fatalf("MovieIDs len = %d, want 3", got)
	}

	f.movies[1] = []radarr.Movie{{ImdbID: "b2"}}
	lib.Sync(context.Background(), 1)
	if _, ok := lib.Movie(0, "a1"); !ok {
		t.Fatalf("server 0 data lost after syncing server 1")
	}
}

func TestMoviesWithFileByNew_StableAscending(t *testing.T) {
	_, f, lib := newFixture(t, 1)
	f.movies[0] = []radarr.Movie{
		withFile("late", "2021-05-01T00:00:00Z"),
		withFile("tieA", "2020-01-01T00:00:00Z"),
		withFile("early", "2019-01-01T00:00:00Z"),
		withFile("tieB", "2020-01-01T00:00:00Z"),
	}
	lib.Sync(context.Background(), 0)

	var got []string
	for _, file := range lib.MoviesWithFileByNew() {
		got = append(got, file.ImdbID)
	}
	want := []string{"early", "tieA", "tieB", "late"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MoviesWithFileByNew = %v, want %v", got, want)
	}
}

func TestQueuedByProgress_StableAscending(t *testing.T) {
	_, f, lib := newFixture(t, 1)
	f.queue[0] = []radarr.QueueItem{
		{ID: 1, Sizeleft: 500},
		{ID: 2, Sizeleft: 10},
		{ID: 3, Sizeleft: 500},
		{ID: 4, Sizeleft: 0},
	}
	lib.Sync(context.Background(), 0)

	var got []int
	for _, q := range lib.QueuedByProgress() {
		got = append(got, q.ID)
	}
	if want := []int{4, 2, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("QueuedByProgress ids = %v, want %v", got, want)
	}
}

func TestRemoveAndSubscribe(t *testing.T) {
	reg, f, lib := newFixture(t, 2)
	f.movies[0] = []radarr.Movie{{ImdbID: "a1"}}
	f.movies[1] = []radarr.Movie{{ImdbID: "b1"}}
	lib.SyncAll(context.Background())

	calls := 0
	cancel := lib.Subscribe(func() { calls++ })

	reg.Remove(0)
	lib.Remove(0)
	if got := lib.MovieIDs(); !reflect.DeepEqual(got, []string{"b1"}) {
		t.Fatalf("MovieIDs after Remove = %v, want [b1]", got)
	}
	if _, ok := lib.Status(0); ok {
		t.Fatalf("Status(0) should be dropped")
	}
	if calls != 1 {
		t.Fatalf("subscriber calls = %d, want 1", calls)
	}

	cancel()
	lib.Remove(1)
	if calls != 1 {
		t.Fatalf("subscriber called after cancel")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	_, f, lib := newFixture(t, 1)
	f.movies[0] = []radarr.Movie{{ImdbID: "tt1", Title: "Original"}}
	lib.Sync(context.Background(), 0)

	snap := lib.Snapshot()
	snap.Movies[0].Title = "Changed"

	if m, _ := lib.Movie(0, "tt1"); m.Title != "Original" {
		t.Fatalf("Title = %q, want Original", m.Title)
	}
}

// racingServers removes the server from the registry and the library right
// after the lookup that precedes the swap.
type racingServers struct {
	reg  *server.Registry
	lib  *Library
	gets int
	done chan struct{}
}

func (r *racingServers) Get(id int) (server.Server, error) {
	s, err := r.reg.Get(id)
	r.gets++
	if r.gets == 2 {
		go func() {
			r.reg.Remove(id)
			r.lib.Remove(id)
			close(r.done)
		}()
	}
	return s, err
}

func (r *racingServers) IDs() []int { return r.reg.IDs() }

func TestSync_RemovedDuringSwapLeavesNoData(t *testing.T) {
	reg, f, _ := newFixture(t, 1)
	f.movies[0] = []radarr.Movie{{ImdbID: "tt1"}}

	servers := &racingServers{reg: reg, done: make(chan struct{})}
	lib := New(servers, f)
	servers.lib = lib

	if err := lib.SyncErr(context.Background(), 0); err != nil {
		t.Fatalf("SyncErr returned error: %v", err)
	}
	<-servers.done

	if reg.HasServer() {
		t.Fatalf("registry still holds server 0")
	}
	if got := lib.MovieIDs(); len(got) != 0 {
		t.Fatalf("removed server 0 still has library data: %v", got)
	}
	if _, ok := lib.Status(0); ok {
		t.Fatalf("removed server 0 still has a status")
	}
}

func TestSync_RemovedBeforeSwapIsDropped(t *testing.T) {
	reg, f, lib := newFixture(t, 1)
	f.movies[0] = []radarr.Movie{{ImdbID: "tt1"}}
	f.beforeWanted = func() {
		reg.Remove(0)
		lib.Remove(0)
	}

	err := lib.SyncErr(context.Background(), 0)
	if !server.IsNotFound(err) {
		t.Fatalf("SyncErr error = %v, want NotFoundError", err)
	}
	if got := lib.MovieIDs(); len(got) != 0 {
		t.Fatalf("MovieIDs = %v, want none after removal", got)
	}

	// A new server reusing the id must not inherit the old data.
	if _, err := reg.Add(server.Server{Name: "New", URI: "http://new", APIKey: "new"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if got := lib.MovieIDs(); len(got) != 0 {
		t.Fatalf("MovieIDs after re-add = %v, want none", got)
	}
}

func TestSync_FailureAfterRemovalKeepsNoStatus(t *testing.T) {
	reg, f, lib := newFixture(t, 1)
	f.beforeWanted = func() {
		reg.Remove(0)
		lib.Remove(0)
	}
	f.setFail("wanted", errors.New("boom"))

	if err := lib.SyncErr(context.Background(), 0); err == nil {
		t.Fatalf("SyncErr returned nil, want wanted failure")
	}
	if _, ok := lib.Status(0); ok {
		t.Fatalf("removed server 0 got a status entry")
	}
}
