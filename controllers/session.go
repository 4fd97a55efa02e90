package controllers

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"secure-dashboard/helpers"
	"secure-dashboard/models"
)

// SessionRegistry is the in-memory session table. Authenticated sessions are
// indexed by username so that a login replaces the previous session of the
// same user inside one critical section. Anonymous sessions are short lived
// and capped; at the cap the oldest one is evicted.
type SessionRegistry struct {
	mu           sync.Mutex
	ttl          time.Duration
	anonTTL      time.Duration
	maxAnonymous int
	anonymous    int
	byID         map[string]models.Session
	byUser       map[string]string
	now          func() time.Time
	logger       *slog.Logger
}

func NewSessionRegistry(ttl time.Duration, logger *slog.Logger) *SessionRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRegistry{
		ttl:          ttl,
		anonTTL:      min(ttl, models.AnonymousSessionDuration),
		maxAnonymous: models.MaxAnonymousSessions,
		byID:         make(map[string]models.Session),
		byUser:       make(map[string]string),
		now:          time.Now,
		logger:       logger,
	}
}

// CreateAnonymous issues a pre-login session that only carries a CSRF token.
func (r *SessionRegistry) CreateAnonymous() models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.anonymous >= r.maxAnonymous {
		r.evictAnonymousLocked()
	}

	session := r.newSessionLocked("", nil, r.anonTTL)
	r.byID[session.ID] = session
	r.anonymous++
	return session
}

// Login issues a fresh session for user. The pre-login session previousID is
// discarded and never promoted, and any session the user already holds is
// revoked. The id of that revoked session is returned, or "" if none.
func (r *SessionRegistry) Login(user models.User, previousID string) (models.Session, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var replaced string
	if oldID, ok := r.byUser[user.Username]; ok {
		if old, ok := r.byID[oldID]; ok {
			r.deleteLocked(old)
		}
		delete(r.byUser, user.Username)
		replaced = oldID
	}

	if previousID != "" {
		if prev, ok := r.byID[previousID]; ok {
			r.deleteLocked(prev)
		}
	}

	roles := append([]string(nil), user.Roles...)
	session := r.newSessionLocked(user.Username, roles, r.ttl)
	r.byID[session.ID] = session
	r.byUser[user.Username] = session.ID

	return session, replaced
}

// Get returns the live session for id. Expired sessions are removed.
func (r *SessionRegistry) Get(id string) (models.Session, bool) {
	if id == "" {
		return models.Session{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.byID[id]
	if !exists {
		return models.Session{}, false
	}

	if session.Expired(r.now()) {
		r.deleteLocked(session)
		return models.Session{}, false
	}

	return session, true
}

// Destroy removes the session. It reports whether a session was removed.
func (r *SessionRegistry) Destroy(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.byID[id]
	if !exists {
		return false
	}
	r.deleteLocked(session)
	return true
}

// CleanupExpired drops every expired session and returns the removed ids.
func (r *SessionRegistry) CleanupExpired() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	now := r.now()

	for _, session := range r.byID {
		if session.Expired(now) {
			expired = append(expired, session.ID)
			r.deleteLocked(session)
		}
	}

	return expired
}

// Active lists live authenticated sessions, oldest first.
func (r *SessionRegistry) Active() []models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []models.Session
	now := r.now()

	for _, id := range r.byUser {
		if session, ok := r.byID[id]; ok && !session.Expired(now) {
			active = append(active, session)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	return active
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Anonymous reports how many pre-login sessions are held.
func (r *SessionRegistry) Anonymous() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.anonymous
}

// evictAnonymousLocked drops expired anonymous sessions, or the oldest one
// when none has expired yet.
func (r *SessionRegistry) evictAnonymousLocked() {
	now := r.now()
	var oldest models.Session
	found := false

	for _, session := range r.byID {
		if session.Authenticated() {
			continue
		}
		if session.Expired(now) {
			r.deleteLocked(session)
			continue
		}
		if !found || session.CreatedAt.Before(oldest.CreatedAt) {
			oldest, found = session, true
		}
	}

	if r.anonymous >= r.maxAnonymous && found {
		r.deleteLocked(oldest)
	}
}

func (r *SessionRegistry) newSessionLocked(username string, roles []string, ttl time.Duration) models.Session {
	id := helpers.GenerateID(32)
	for _, taken := r.byID[id]; taken; _, taken = r.byID[id] {
		id = helpers.GenerateID(32)
	}

	now := r.now()
	return models.Session{
		ID:        id,
		Username:  username,
		Roles:     roles,
		CSRFToken: helpers.GenerateID(32),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (r *SessionRegistry) deleteLocked(session models.Session) {
	delete(r.byID, session.ID)
	if !session.Authenticated() {
		r.anonymous--
		return
	}
	if r.byUser[session.Username] == session.ID {
		delete(r.byUser, session.Username)
	}
}
