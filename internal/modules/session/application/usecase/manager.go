package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"bistroDesk/internal/modules/session/domain"
	"bistroDesk/internal/platform/store"
)

// Gateway is the slice of the identity backend the manager depends on.
type Gateway interface {
	SignIn(ctx context.Context, email, password string) (*store.AuthSession, error)
	SignUp(ctx context.Context, email, password, fullName string) (*store.AuthSession, error)
	SignOut(ctx context.Context, token string) error
	CurrentSession(ctx context.Context, token string) (*store.AuthSession, error)
}

// ChangeListener observes session transitions. A nil session means the
// operator dropped back to guest mode; token carries the access token for
// the new session, empty on sign-out.
type ChangeListener func(session *domain.Session, token string)

// Manager owns the single operator session: sign-in, sign-up, sign-out,
// restoring a prior session at startup, and folding in auth events pushed by
// the backend. Listeners are invoked outside the lock, in registration order.
type Manager struct {
	gateway Gateway

	mu        sync.RWMutex
	session   *domain.Session
	token     string
	listeners []ChangeListener
}

func NewManager(gateway Gateway) *Manager {
	return &Manager{gateway: gateway}
}

// OnChange registers a listener for session transitions. Must be called
// before the manager starts receiving traffic.
func (m *Manager) OnChange(fn ChangeListener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Current returns the active session, nil for guests.
func (m *Manager) Current() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	copied := *m.session
	return &copied
}

// Token returns the access token for the active session, empty for guests.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Restore re-validates a previously issued token at startup. An invalid or
// blank token just leaves the manager in guest mode.
func (m *Manager) Restore(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	authed, err := m.gateway.CurrentSession(ctx, token)
	if err != nil {
		slog.Info("prior session not restored", slog.Any("error", err))
		return
	}
	m.adopt(authed)
}

// SignIn exchanges credentials for a session and announces the transition.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	authed, err := m.gateway.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.adopt(authed), nil
}

// SignUp registers a new account and, when the backend issues a session
// immediately, signs it in.
func (m *Manager) SignUp(ctx context.Context, email, password, fullName string) (*domain.Session, error) {
	authed, err := m.gateway.SignUp(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}
	return m.adopt(authed), nil
}

// SignOut drops the local session first, then revokes the token. Revocation
// failures are logged only; the operator is signed out either way.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.session = nil
	m.token = ""
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(nil, "")
	}
	if token == "" {
		return
	}
	if err := m.gateway.SignOut(ctx, token); err != nil {
		slog.Warn("session revocation failed", slog.Any("error", err))
	}
}

// Auth event names pushed by the backend's change feed.
const (
	EventSignedIn       = "SIGNED_IN"
	EventSignedOut      = "SIGNED_OUT"
	EventTokenRefreshed = "TOKEN_REFRESHED"
)

// HandleAuthEvent folds a backend-pushed auth transition into local state.
// Signed-in and token-refresh events carry the token to resolve; unknown
// events are ignored.
func (m *Manager) HandleAuthEvent(ctx context.Context, event, token string) {
	switch event {
	case EventSignedOut:
		m.mu.Lock()
		wasAuthed := m.session != nil
		m.session = nil
		m.token = ""
		listeners := m.snapshotListeners()
		m.mu.Unlock()
		if wasAuthed {
			for _, fn := range listeners {
				fn(nil, "")
			}
		}
	case EventSignedIn, EventTokenRefreshed:
		authed, err := m.gateway.CurrentSession(ctx, token)
		if err != nil {
			slog.Warn("auth event token rejected", slog.String("event", event), slog.Any("error", err))
			return
		}
		m.adopt(authed)
	default:
		slog.Debug("ignoring auth event", slog.String("event", event))
	}
}

func (m *Manager) adopt(authed *store.AuthSession) *domain.Session {
	session := domain.Derive(authed.Account.ID, authed.Account.Email, authed.Account.FullName)

	m.mu.Lock()
	sameIdentity := m.session != nil && m.session.ID == session.ID && m.token == authed.AccessToken
	m.session = &session
	m.token = authed.AccessToken
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	if !sameIdentity {
		for _, fn := range listeners {
			fn(&session, authed.AccessToken)
		}
	}
	copied := session
	return &copied
}

func (m *Manager) snapshotListeners() []ChangeListener {
	out := make([]ChangeListener, len(m.listeners))
	copy(out, m.listeners)
	return out
}
