package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/flash"
	"github.com/five82/marquee/internal/library"
	"github.com/five82/marquee/internal/persist"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/radarr"
	"github.com/five82/marquee/internal/server"
)

// StoresOptions configure NewStores.
type StoresOptions struct {
	// KV persists the general and server stores. Nil disables persistence.
	KV              *persist.KV
	FetchTimeout    time.Duration
	FlashHistoryMax int
	HTTPClient      *http.Client
	Logger          zerolog.Logger
}

// Stores is the context object shared by the poller and the UI.
type Stores struct {
	Servers *server.Registry
	Library *library.Library
	Flash   *flash.Queue
	Prefs   *prefs.Store
	Gateway *radarr.Client

	kv      *persist.KV
	log     zerolog.Logger
	saveMu  sync.Mutex
	active  atomic.Int32
	cancels []func()
}

type generalRecord struct {
	Prefs        prefs.Prefs     `json:"prefs"`
	FlashHistory []flash.Message `json:"flashHistory"`
}

type serverRecord struct {
	Servers []server.Server `json:"servers"`
}

// NewStores builds every store, restores persisted state and wires
// save-on-change.
func NewStores(opts StoresOptions) (*Stores, error) {
	log := opts.Logger

	s := &Stores{
		Servers: server.NewRegistry(),
		Flash:   flash.New(flash.WithHistoryMax(opts.FlashHistoryMax)),
		Prefs:   prefs.NewStore(),
		kv:      opts.KV,
		log:     log,
	}
	s.Gateway = radarr.NewClient(s.Servers,
		radarr.WithTimeout(opts.FetchTimeout),
		radarr.WithHTTPClient(opts.HTTPClient),
		radarr.WithLogger(log.With().Str("component", "gateway").Logger()),
	)
	s.Library = library.New(s.Servers, s.Gateway,
		library.WithLogger(log.With().Str("component", "library").Logger()),
	)

	if err := s.restore(); err != nil {
		return nil, err
	}

	s.Library.OnError(s.reportSyncError)
	s.cancels = append(s.cancels,
		s.Servers.Subscribe(s.saveServers),
		s.Prefs.Subscribe(s.saveGeneral),
		s.Flash.Subscribe(s.saveGeneral),
	)
	return s, nil
}

// SaveServer validates and stores a server, returning its id. Editing a
// server discards its circuit breaker so the new address is tried at once.
func (s *Stores) SaveServer(srv server.Server) (int, error) {
	id, err := s.Servers.Add(srv)
	if err != nil {
		return 0, err
	}
	s.Gateway.ResetServer(id)
	return id, nil
}

// RemoveServer unregisters a server and drops its library data.
func (s *Stores) RemoveServer(id int) {
	s.Servers.Remove(id)
	s.Library.Remove(id)
	s.Gateway.ResetServer(id)
}

// Sync refreshes one server while the network activity indicator is on.
func (s *Stores) Sync(ctx context.Context, id int) bool {
	s.beginActivity()
	defer s.endActivity()
	return s.Library.Sync(ctx, id)
}

// SyncAll refreshes every server while the network activity indicator is on.
func (s *Stores) SyncAll(ctx context.Context) {
	s.beginActivity()
	defer s.endActivity()
	s.Library.SyncAll(ctx)
}

// Reset clears every persisted store and empties the in-memory ones.
func (s *Stores) Reset() error {
	if s.kv != nil {
		if err := s.kv.PurgeAll(); err != nil {
			return fmt.Errorf("purge stores: %w", err)
		}
	}
	for _, id := range s.Servers.IDs() {
		s.RemoveServer(id)
	}
	s.Flash.ClearHistory()
	s.Prefs.Restore(prefs.Default())
	return nil
}

// Close detaches the persistence subscribers. The KV store is owned by the
// caller.
func (s *Stores) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}

func (s *Stores) restore() error {
	if s.kv == nil {
		return nil
	}

	var general generalRecord
	found, err := s.kv.Load(persist.KeyGeneral, &general)
	if err != nil {
		return fmt.Errorf("restore general store: %w", err)
	}
	if found {
		s.Prefs.Restore(general.Prefs)
		s.Flash.RestoreHistory(general.FlashHistory)
	}

	var servers serverRecord
	found, err = s.kv.Load(persist.KeyServer, &servers)
	if err != nil {
		return fmt.Errorf("restore server store: %w", err)
	}
	if found {
		s.Servers.Restore(servers.Servers)
	}

	s.log.Debug().Int("servers", len(servers.Servers)).Msg("stores restored")
	return nil
}

func (s *Stores) saveServers() {
	if s.kv == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.kv.Save(persist.KeyServer, serverRecord{Servers: s.Servers.List()}); err != nil {
		s.log.Warn().Err(err).Msg("save server store failed")
	}
}

func (s *Stores) saveGeneral() {
	if s.kv == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	record := generalRecord{Prefs: s.Prefs.Get(), FlashHistory: s.Flash.History()}
	if err := s.kv.Save(persist.KeyGeneral, record); err != nil {
		s.log.Warn().Err(err).Msg("save general store failed")
	}
}

func (s *Stores) reportSyncError(serverID int, err error) {
	title := fmt.Sprintf("Server %d", serverID)
	if srv, lookupErr := s.Servers.Get(serverID); lookupErr == nil {
		title = srv.Name
	}
	s.Flash.Enqueue(flash.Message{
		Type:  flash.Danger,
		Title: title,
		Text:  err.Error(),
	})
}

func (s *Stores) beginActivity() {
	if s.active.Add(1) == 1 {
		s.Prefs.SetNetworkActivity(true)
	}
}

func (s *Stores) endActivity() {
	if s.active.Add(-1) == 0 {
		s.Prefs.SetNetworkActivity(false)
	}
}
