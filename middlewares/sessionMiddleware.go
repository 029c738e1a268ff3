package middlewares

import (
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/envreview_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the client's session id. Each UI instance (tab)
// holds its own id, so each gets its own review selection state. This is a
// UI-instance handle, not an identity; there is no authentication here.
const SessionHeader = "X-Session-Id"

const sessionContextKey = "envreview-session"

type sessionEntry struct {
	session  *workflow.ReviewSession
	lastSeen time.Time
}

// SessionRegistry hands out one ReviewSession per session id and drops
// sessions idle past the TTL.
type SessionRegistry struct {
	store workflow.ReviewStore
	ttl   time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewSessionRegistry(store workflow.ReviewStore, ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &SessionRegistry{
		store:    store,
		ttl:      ttl,
		sessions: make(map[string]*sessionEntry),
	}
}

func (r *SessionRegistry) get(id string) (*workflow.ReviewSession, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for key, entry := range r.sessions {
		if now.Sub(entry.lastSeen) > r.ttl {
			delete(r.sessions, key)
		}
	}

	if id != "" {
		if entry, ok := r.sessions[id]; ok {
			entry.lastSeen = now
			return entry.session, id
		}
	}

	id = uuid.NewString()
	session := workflow.NewReviewSession(r.store)
	r.sessions[id] = &sessionEntry{session: session, lastSeen: now}
	return session, id
}

// Bind attaches the caller's ReviewSession to the gin context and echoes the
// session id so the client can carry it forward.
func Bind(c *gin.Context, registry *SessionRegistry) *workflow.ReviewSession {
	session, id := registry.get(c.GetHeader(SessionHeader))
	c.Header(SessionHeader, id)
	c.Set(sessionContextKey, session)
	return session
}

// SessionFrom returns the ReviewSession bound to this request.
func SessionFrom(c *gin.Context) *workflow.ReviewSession {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*workflow.ReviewSession); ok {
			return s
		}
	}
	return nil
}
