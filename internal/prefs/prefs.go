// Package prefs holds marquee's general settings: the colour theme, the
// display language and whether network activity is currently shown.
package prefs

import (
	"strings"
	"sync"

	"github.com/five82/marquee/internal/observe"
)

// Prefs holds the general settings.
type Prefs struct {
	Theme           string `json:"theme"`
	Language        string `json:"language"`
	IsRTL           bool   `json:"isRtl"`
	NetworkActivity bool   `json:"-"`
}

const (
	defaultTheme    = "Nightfox"
	defaultLanguage = "en"
)

// Languages lists the display languages in cycle order.
var Languages = []string{"en", "pt-BR"}

// NextLanguage returns the language after current in Languages, wrapping
// around. Unknown languages restart at the first one.
func NextLanguage(current string) string {
	for i, lang := range Languages {
		if lang == current {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return Languages[0]
}

// Default returns the settings used on first start.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Language: defaultLanguage}
}

func (p Prefs) normalized() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if strings.TrimSpace(p.Language) == "" {
		p.Language = defaultLanguage
		p.IsRTL = false
	}
	return p
}

// Store guards the settings and notifies subscribers of changes.
type Store struct {
	mu    sync.RWMutex
	prefs Prefs

	observers observe.Set
}

// NewStore returns a store holding the default settings.
func NewStore() *Store {
	return &Store{
		prefs: Default(),
	}
}

// Get returns the current settings.
func (s *Store) Get() Prefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Restore replaces the settings with persisted ones, filling blanks with
// defaults. Network activity is runtime state and is never restored.
func (s *Store) Restore(p Prefs) {
	p = p.normalized()
	s.update(func(cur *Prefs) {
		active := cur.NetworkActivity
		*cur = p
		cur.NetworkActivity = active
	})
}

// SetTheme selects the colour theme. Blank names fall back to the default.
func (s *Store) SetTheme(name string) {
	s.update(func(cur *Prefs) {
		cur.Theme = name
		*cur = cur.normalized()
	})
}

// SetLanguage selects the display language and its writing direction.
func (s *Store) SetLanguage(language string, rtl bool) {
	s.update(func(cur *Prefs) {
		cur.Language = language
		cur.IsRTL = rtl
		*cur = cur.normalized()
	})
}

// SetNetworkActivity toggles the network activity indicator.
func (s *Store) SetNetworkActivity(active bool) {
	s.update(func(cur *Prefs) {
		cur.NetworkActivity = active
	})
}

// Subscribe registers fn to run after every change. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	return s.observers.Subscribe(fn)
}

func (s *Store) update(mutate func(*Prefs)) {
	s.mu.Lock()
	before := s.prefs
	mutate(&s.prefs)
	changed := before != s.prefs
	s.mu.Unlock()

	if changed {
		s.observers.Notify()
	}
}
