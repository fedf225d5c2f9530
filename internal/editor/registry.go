// Package editor hosts live seatmap editing sessions. Each session owns one
// seatmap.Canvas; the registry serialises requests per session, autosaves a
// draft after every successful change and expires idle sessions.
package editor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/seatmap-console/internal/config"
	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

var (
	ErrSessionNotFound = errors.New("editor session not found")
	ErrForbidden       = errors.New("editor session belongs to another user")
	ErrNoDialog        = errors.New("no area dialog is open")
)

// CreateParams seeds a new session. Seatmap, when set, is an existing
// canvas document to continue editing.
type CreateParams struct {
	OwnerID     string
	ShowID      string
	Width       float64
	Height      float64
	TicketTypes []seatmap.TicketTypeDraft
	Seatmap     string
}

// Registry tracks live sessions in memory.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	drafts   DraftStore
	ttl      time.Duration
	width    float64
	height   float64
	max      limits
	now      func() time.Time
}

type limits struct{ width, height float64 }

// NewRegistry builds a registry. A nil drafts store disables autosave.
func NewRegistry(drafts DraftStore, cfg config.EditorConfig) *Registry {
	if drafts == nil {
		drafts = NopDraftStore{}
	}
	return &Registry{
		sessions: make(map[string]*Session),
		drafts:   drafts,
		ttl:      cfg.SessionTTL,
		width:    cfg.DefaultWidth,
		height:   cfg.DefaultHeight,
		max:      limits{cfg.MaxWidth, cfg.MaxHeight},
		now:      time.Now,
	}
}

// Len returns the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Create opens a new session. A viewport above the configured maximum or an
// invalid seed document fails the call and nothing is registered.
func (r *Registry) Create(ctx context.Context, p CreateParams) (State, error) {
	w, h := p.Width, p.Height
	if w <= 0 || h <= 0 {
		w, h = r.width, r.height
	}
	s, err := newSession(uuid.NewString(), p.OwnerID, p.ShowID, w, h, r.max)
	if err != nil {
		return State{}, err
	}
	s.canvas.SetTicketTypes(p.TicketTypes)
	if p.Seatmap != "" {
		if err := s.canvas.UnmarshalDocument([]byte(p.Seatmap)); err != nil {
			return State{}, err
		}
		// the container size wins over the stored document size
		if p.Width > 0 && p.Height > 0 {
			_ = s.canvas.Resize(p.Width, p.Height)
		}
		// zones bound to ticket types missing from the list are dropped
		s.canvas.SetTicketTypes(p.TicketTypes)
	}
	s.touch(r.now())

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	r.save(ctx, s)
	log.Printf("[editor] session %s opened by %s", s.ID, s.OwnerID)
	return s.snapshot(), nil
}

// lookup finds a session in memory or restores it from its draft.
func (r *Registry) lookup(ctx context.Context, id, ownerID string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		var err error
		if s, err = r.restore(ctx, id); err != nil {
			return nil, err
		}
	}
	if s.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return s, nil
}

func (r *Registry) restore(ctx context.Context, id string) (*Session, error) {
	d, err := r.drafts.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	s, err := newSession(d.SessionID, d.OwnerID, d.ShowID, r.width, r.height, r.max)
	if err != nil {
		return nil, err
	}
	s.canvas.SetTicketTypes(d.TicketTypes)
	if len(d.Document) > 0 {
		if err := s.canvas.UnmarshalDocument(d.Document); err != nil {
			log.Printf("[editor] draft %s unreadable: %v", id, err)
			return nil, ErrSessionNotFound
		}
	}
	s.canvas.SetGrid(d.Grid)
	s.touch(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have restored it meanwhile
	if existing, ok := r.sessions[id]; ok {
		return existing, nil
	}
	r.sessions[id] = s
	log.Printf("[editor] session %s restored from draft", id)
	return s, nil
}

// Get returns the current state of a session.
func (r *Registry) Get(ctx context.Context, id, ownerID string) (State, error) {
	s, err := r.lookup(ctx, id, ownerID)
	if err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionNotFound
	}
	s.touch(r.now())
	return s.snapshot(), nil
}

// Do runs fn with exclusive access to the session. When fn succeeds the
// session is autosaved. The returned State is taken after fn either way, so
// toasts raised by a rejected operation reach the caller.
func (r *Registry) Do(ctx context.Context, id, ownerID string, fn func(*Session) error) (State, error) {
	s, err := r.lookup(ctx, id, ownerID)
	if err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// closed while this request waited for the lock
	if s.closed {
		return State{}, ErrSessionNotFound
	}

	s.touch(r.now())
	if err := fn(s); err != nil {
		return s.snapshot(), err
	}
	r.save(ctx, s)
	return s.snapshot(), nil
}

// save writes a draft. Failures are logged; editing goes on without them.
func (r *Registry) save(ctx context.Context, s *Session) {
	d, err := s.draft(r.now())
	if err == nil {
		err = r.drafts.Save(ctx, d)
	}
	if err != nil {
		log.Printf("[editor] draft save for %s failed: %v", s.ID, err)
	}
}

// Close ends a session and discards its draft. It waits for a request
// already running on the session, so that request's autosave lands before
// the draft is deleted and cannot bring the session back.
func (r *Registry) Close(ctx context.Context, id, ownerID string) error {
	s, err := r.lookup(ctx, id, ownerID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionNotFound
	}
	s.closed = true

	r.mu.Lock()
	if r.sessions[s.ID] == s {
		delete(r.sessions, s.ID)
	}
	r.mu.Unlock()

	if err := r.drafts.Delete(ctx, s.ID); err != nil {
		log.Printf("[editor] draft delete for %s failed: %v", s.ID, err)
	}
	log.Printf("[editor] session %s closed", s.ID)
	return nil
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped. Their drafts stay in the store until they expire, so a
// returning user gets the session back.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.idleSince()) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (r *Registry) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	log.Printf("[editor] sweeper started: idle sessions expire after %s", r.ttl)
	for {
		select {
		case <-ctx.Done():
			log.Println("[editor] sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				log.Printf("[editor] swept %d idle sessions", n)
			}
		}
	}
}
