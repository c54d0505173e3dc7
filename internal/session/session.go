// Package session keeps one redirect list controller per browser session.
// The session ID travels in a signed and encrypted cookie.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"redirector/internal/controller"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// CookieName is the name of the session cookie.
const CookieName = "RedirectorSession"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash - a one-shot message shown after a form post.
type Flash struct {
	Kind string
	Text string
}

// Session - one mounted list view.
type Session struct {
	ID         string
	Controller *controller.ListController

	mu       sync.Mutex
	lastSeen time.Time
	mounted  bool
	flashes  []Flash
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, Flash{Kind: kind, Text: text})
}

// PopFlashes returns the queued messages and forgets them.
func (s *Session) PopFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

// MarkMounted reports whether the session was mounted before and marks it mounted.
func (s *Session) MarkMounted() (wasMounted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasMounted = s.mounted
	s.mounted = true
	return wasMounted
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Factory builds the controller of a new session.
type Factory func() *controller.ListController

// Registry - live sessions keyed by ID.
type Registry struct {
	cookie  *securecookie.SecureCookie
	ttl     time.Duration
	factory Factory
	sugar   *zap.SugaredLogger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry. Empty keys are replaced by random ones, so
// sessions do not survive a restart.
func NewRegistry(hashKey, blockKey []byte, ttl time.Duration, factory Factory, sugar *zap.SugaredLogger) *Registry {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if len(blockKey) == 0 {
		blockKey = securecookie.GenerateRandomKey(32)
	}
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}

	return &Registry{
		cookie:   securecookie.New(hashKey, blockKey),
		ttl:      ttl,
		factory:  factory,
		sugar:    sugar,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// GetSessionIDFromCookie returns the session ID of the request.
func (r *Registry) GetSessionIDFromCookie(req *http.Request) (string, error) {
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return "", err
	}

	var id string
	if err := r.cookie.Decode(CookieName, cookie.Value, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SetSessionIDCookie sends the session cookie.
func (r *Registry) SetSessionIDCookie(w http.ResponseWriter, id string) error {
	encoded, err := r.cookie.Encode(CookieName, id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Lookup returns the live session of the request.
func (r *Registry) Lookup(req *http.Request) (*Session, bool) {
	id, err := r.GetSessionIDFromCookie(req)
	if err != nil {
		return nil, false
	}

	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Acquire returns the session of the request, starting a new one when the
// cookie is missing, invalid or expired.
func (r *Registry) Acquire(w http.ResponseWriter, req *http.Request) (*Session, error) {
	if s, ok := r.Lookup(req); ok {
		return s, nil
	}

	s := &Session{
		ID:         uuid.NewString(),
		Controller: r.factory(),
		lastSeen:   r.now(),
	}
	if err := r.SetSessionIDCookie(w, s.ID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.sugar.Debugw("session started", "id", s.ID)
	return s, nil
}

// Close discards the session of the request and expires its cookie.
func (r *Registry) Close(w http.ResponseWriter, req *http.Request) {
	if id, err := r.GetSessionIDFromCookie(req); err == nil {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		r.sugar.Debugw("session closed", "id", id)
	}

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep discards sessions idle for longer than the TTL and returns how many.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	deadline := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(deadline) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.sugar.Infow("idle sessions discarded", "count", n)
			}
		}
	}
}
