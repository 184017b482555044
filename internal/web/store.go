// BYZRA ⸻ internal/web/store.go
// one session controller per browser, dropped when idle

package web

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	lru "github.com/hashicorp/golang-lru/v2"

	"exifdrop/internal/present"
	"exifdrop/internal/session"
)

const cookieName = "exifdrop_session"

// pushed to every open page of a browser session
type event struct {
	Event string        `json:"event"`
	Views present.Views `json:"views"`
}

type entry struct {
	id       string
	ctrl     *session.Controller
	lastSeen atomic.Int64

	mu   sync.Mutex
	subs map[chan event]struct{}
}

func (e *entry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

func (e *entry) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, e.lastSeen.Load()))
}

// subscribe returns a feed of session changes and its cancel func.
func (e *entry) subscribe() (<-chan event, func()) {
	ch := make(chan event, 4)
	e.mu.Lock()
	if e.subs == nil {
		e.subs = make(map[chan event]struct{})
	}
	e.subs[ch] = struct{}{}
	e.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			if _, ok := e.subs[ch]; ok {
				delete(e.subs, ch)
				close(ch)
			}
			e.mu.Unlock()
		})
	}
}

// a slow page misses an update rather than blocking the request
func (e *entry) notify(name string) {
	ev := event{Event: name, Views: e.ctrl.Views()}
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *entry) close() {
	e.ctrl.Reset()
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		delete(e.subs, ch)
		close(ch)
	}
}

type store struct {
	cache   *lru.Cache[string, *entry]
	codec   *securecookie.SecureCookie
	idle    time.Duration
	newCtrl func() *session.Controller
	logger  session.Logger
	now     func() time.Time
}

func newStore(capacity int, idle time.Duration, newCtrl func() *session.Controller, logger session.Logger) (*store, error) {
	s := &store{
		codec:   securecookie.New(securecookie.GenerateRandomKey(32), nil),
		idle:    idle,
		newCtrl: newCtrl,
		logger:  logger,
		now:     time.Now,
	}
	cache, err := lru.NewWithEvict(capacity, func(id string, e *entry) {
		e.close()
		s.logger.Debug(fmt.Sprintf("Session %s released", id))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	s.cache = cache
	return s, nil
}

// lookup finds the browser's session without creating one.
func (s *store) lookup(r *http.Request) (*entry, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil, false
	}
	var id string
	if err := s.codec.Decode(cookieName, c.Value, &id); err != nil {
		return nil, false
	}
	e, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	e.touch(s.now())
	return e, true
}

// get returns the browser's session, starting a new one (and setting its
// cookie) when there is none.
func (s *store) get(w http.ResponseWriter, r *http.Request) (*entry, error) {
	if e, ok := s.lookup(r); ok {
		return e, nil
	}

	id := uuid.NewString()
	value, err := s.codec.Encode(cookieName, id)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session cookie: %w", err)
	}
	e := &entry{id: id, ctrl: s.newCtrl()}
	e.touch(s.now())
	s.cache.Add(id, e)

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	s.logger.Debug(fmt.Sprintf("Session %s started", id))
	return e, nil
}

// sweep drops sessions idle longer than the limit and reports how many went.
func (s *store) sweep() int {
	if s.idle <= 0 {
		return 0
	}
	now := s.now()
	n := 0
	for _, id := range s.cache.Keys() {
		e, ok := s.cache.Peek(id)
		if ok && e.idleSince(now) > s.idle {
			s.cache.Remove(id)
			n++
		}
	}
	return n
}

func (s *store) len() int {
	return s.cache.Len()
}

func (s *store) purge() {
	s.cache.Purge()
}
