// Package session drives the account lifecycle: login, first-login setup,
// freeze enforcement and logout. The manager owns the conversation model,
// the typing tracker and the poll loop for the authenticated identity, and
// linearizes every user-initiated mutation with the synchronizer's merges.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/client/api"
	"github.com/pr-poehali-dev/onlimess/internal/client/conversation"
	"github.com/pr-poehali-dev/onlimess/internal/client/models"
	"github.com/pr-poehali-dev/onlimess/internal/client/presence"
	"github.com/pr-poehali-dev/onlimess/internal/client/sessionstore"
	"github.com/pr-poehali-dev/onlimess/internal/client/syncer"
	"github.com/pr-poehali-dev/onlimess/internal/common"
	"github.com/pr-poehali-dev/onlimess/internal/logging"
)

// Config carries the engine timings. Defaults mirror the original client:
// a 1s poll and a 3s typing reset.
type Config struct {
	PollInterval time.Duration
	TypingReset  time.Duration
}

// Notify receives transient user-facing notifications: new-message toasts
// and action errors. It must not block.
type Notify func(text string)

// Manager is the single logical actor of the client. All state transitions
// go through it; writes to the shared model are serialized via the model's
// own lock, never held across a network call.
type Manager struct {
	client api.Client
	store  *sessionstore.Store
	cfg    Config
	notify Notify
	logger logging.Logger

	mu       sync.Mutex
	state    State
	session  *models.Session
	model    *conversation.Model
	typing   *presence.Tracker
	stopSync context.CancelFunc
	syncDone chan struct{}
}

func NewManager(client api.Client, store *sessionstore.Store, cfg Config, notify Notify, logger logging.Logger) *Manager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.TypingReset <= 0 {
		cfg.TypingReset = 3 * time.Second
	}
	if notify == nil {
		notify = func(string) {}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		client: client,
		store:  store,
		cfg:    cfg,
		notify: notify,
		logger: logger,
		state:  Unauthenticated,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns a copy of the authenticated session, or nil.
func (m *Manager) Session() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Model returns the conversation model of the active session, or nil.
func (m *Manager) Model() *conversation.Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

// Typing returns the typing tracker of the active session, or nil.
func (m *Manager) Typing() *presence.Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.typing
}

// Resume restores a persisted session snapshot without re-login. Returns
// common.ErrNotFound when no snapshot is stored.
func (m *Manager) Resume(ctx context.Context) error {
	session, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	m.client.SetToken(session.AccessToken)
	m.activate(ctx, session, false)
	return nil
}

// Login authenticates. An unknown username and a wrong password are not
// distinguished; a frozen account is only reported after the credential
// matched. A first login parks the session in FirstLoginSetup and starts no
// polling until setup completes.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	session, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if !session.HasLoggedIn {
		m.mu.Lock()
		m.session = session
		m.state = FirstLoginSetup
		m.mu.Unlock()
		return nil
	}

	m.activate(ctx, session, true)
	return nil
}

// CompleteSetup finishes first-login profile setup. Valid only from the
// FirstLoginSetup state. Both fields are required and the email must end
// with the reserved domain suffix; setting hasLoggedIn is irrevocable.
func (m *Manager) CompleteSetup(ctx context.Context, displayName, email string) error {
	m.mu.Lock()
	if m.state != FirstLoginSetup {
		m.mu.Unlock()
		return fmt.Errorf("%w: setup not pending", common.ErrValidation)
	}
	m.mu.Unlock()

	if displayName == "" || email == "" {
		return fmt.Errorf("%w: display name and email required", common.ErrValidation)
	}
	if !common.ValidEmail(email) {
		return fmt.Errorf("%w: email must be in the %s domain", common.ErrValidation, common.ReservedDomain)
	}

	session, err := m.client.CompleteSetup(ctx, displayName, email)
	if err != nil {
		return err
	}

	m.activate(ctx, session, true)
	return nil
}

// Logout ends the session: the snapshot is cleared, polling stops and every
// pending typing timer is cancelled. Not available while frozen; freeze is
// sticky until an admin intervenes.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.state == Frozen {
		m.mu.Unlock()
		return common.ErrAccountFrozen
	}
	if m.state == Unauthenticated {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	m.shutdownSession()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn(ctx, "failed to clear session snapshot", "err", err)
	}
	m.client.SetToken("")

	m.mu.Lock()
	m.session = nil
	m.model = nil
	m.typing = nil
	m.state = Unauthenticated
	m.mu.Unlock()
	return nil
}

// Close stops polling and timers without touching the persisted snapshot,
// so the next start resumes the session. For process shutdown.
func (m *Manager) Close() {
	m.shutdownSession()
}

// activate installs the session, persists the snapshot when wanted, and
// starts the poll loop scoped to the session identity.
func (m *Manager) activate(ctx context.Context, session *models.Session, persist bool) {
	m.shutdownSession()

	model := conversation.New(session.Email)
	typing := presence.NewTracker(m.cfg.TypingReset)

	m.mu.Lock()
	m.session = session
	m.model = model
	m.typing = typing
	if session.IsFrozen {
		m.state = Frozen
	} else {
		m.state = Active
	}
	m.mu.Unlock()

	if persist {
		if err := m.store.Save(ctx, session); err != nil {
			m.logger.Warn(ctx, "failed to persist session snapshot", "err", err)
		}
	}

	s := syncer.New(m.client, model, syncer.Options{
		Interval: m.cfg.PollInterval,
		IsAdmin:  session.IsAdmin,
		OnNewMessages: func(count int) {
			m.notify("new message received")
		},
		OnProfile: m.applyProfile,
		Logger:    m.logger.With("component", "syncer"),
	})

	syncCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m.mu.Lock()
	m.stopSync = cancel
	m.syncDone = done
	m.mu.Unlock()

	go func() {
		defer close(done)
		s.Run(syncCtx)
	}()
}

// shutdownSession deterministically stops the poll loop and typing timers of
// the current session, if any. Leaking either would raise phantom
// notifications or typing flags after the session ended.
func (m *Manager) shutdownSession() {
	m.mu.Lock()
	stop := m.stopSync
	done := m.syncDone
	typing := m.typing
	m.stopSync = nil
	m.syncDone = nil
	m.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
	if typing != nil {
		typing.Reset()
	}
}

// applyProfile is the freeze-enforcement hook: each poll tick re-reads the
// authoritative record and overrides the display state accordingly. The
// override is a display-lock, not a destroy; unfreezing restores Active.
func (m *Manager) applyProfile(user models.User) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}

	changed := m.session.IsFrozen != user.IsFrozen ||
		m.session.DisplayName != user.DisplayName ||
		m.session.Email != user.Email

	m.session.DisplayName = user.DisplayName
	m.session.Email = user.Email
	m.session.IsFrozen = user.IsFrozen
	m.session.HasLoggedIn = user.HasLoggedIn

	if user.IsFrozen {
		m.state = Frozen
	} else if m.state == Frozen {
		m.state = Active
	}
	snapshot := *m.session
	m.mu.Unlock()

	if changed {
		if err := m.store.Save(context.Background(), &snapshot); err != nil {
			m.logger.Warn(context.Background(), "failed to refresh session snapshot", "err", err)
		}
	}
}

// requireActive guards every user-initiated action.
func (m *Manager) requireActive() (*models.Session, *conversation.Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Active:
		s := *m.session
		return &s, m.model, nil
	case Frozen:
		return nil, nil, common.ErrAccountFrozen
	default:
		return nil, nil, common.ErrUnauthorized
	}
}
