package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/SscSPs/currency_converter_app/internal/core/ports/services"
)

type storeEntry struct {
	form     *Form
	lastSeen time.Time
}

// Store keeps one Form per session ID and forgets sessions idle for longer than ttl.
type Store struct {
	mu      sync.Mutex
	forms   map[string]*storeEntry
	svc     portssvc.ConverterSvcFacade
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time
	onSweep []func()
}

// NewStore creates an empty session store.
func NewStore(svc portssvc.ConverterSvcFacade, ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		forms:  make(map[string]*storeEntry),
		svc:    svc,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the form of sessionID, creating it on first use.
func (s *Store) Get(sessionID string) *Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.forms[sessionID]
	if !ok {
		e = &storeEntry{form: NewForm(s.svc, s.logger.With(slog.String("session_id", sessionID)))}
		s.forms[sessionID] = e
	}
	e.lastSeen = s.now()
	return e.form
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

// OnSweep registers fn to run after every sweep, e.g. to purge related caches.
func (s *Store) OnSweep(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSweep = append(s.onSweep, fn)
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	now := s.now()
	n := 0
	for id, e := range s.forms {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.forms, id)
			n++
		}
	}
	hooks := append([]func(){}, s.onSweep...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("Expired converter sessions removed", slog.Int("count", n), slog.Int("remaining", s.Len()))
			}
		}
	}
}
