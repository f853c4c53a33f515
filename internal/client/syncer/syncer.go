// Package syncer reconciles the local conversation model against the
// authoritative store on a fixed interval. The store is polled, never
// pushed; each successful tick applies a snapshot replace.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/client/api"
	"github.com/pr-poehali-dev/onlimess/internal/client/conversation"
	"github.com/pr-poehali-dev/onlimess/internal/client/models"
	"github.com/pr-poehali-dev/onlimess/internal/logging"
)

// Options configures a Syncer.
type Options struct {
	// Interval between poll ticks.
	Interval time.Duration

	// IsAdmin enables polling of the user roster.
	IsAdmin bool

	// OnNewMessages fires at most once per tick, when the tick detected
	// previously unknown inbound messages and is not the initial fetch.
	// The count is how many arrived in that tick.
	OnNewMessages func(count int)

	// OnProfile receives the freshly fetched profile every tick, before the
	// snapshot replace. The session layer uses it for freeze enforcement.
	OnProfile func(user models.User)

	Logger logging.Logger
}

// Syncer runs the periodic reconciliation loop for one session.
type Syncer struct {
	client  api.Client
	model   *conversation.Model
	opts    Options
	fetched bool
}

func New(client api.Client, model *conversation.Model, opts Options) *Syncer {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Syncer{client: client, model: model, opts: opts}
}

// Run polls until ctx is cancelled. Tick failures are logged and swallowed;
// the model stays stale-but-consistent until the next successful tick.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	// Initial fetch without waiting out the first interval.
	if err := s.Tick(ctx); err != nil {
		s.opts.Logger.Warn(ctx, "initial fetch failed", "err", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.opts.Logger.Warn(ctx, "poll tick failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Tick performs one reconciliation pass. All snapshots are fetched before
// anything is applied, so a failed fetch leaves the model byte-for-byte
// unchanged for this tick.
func (s *Syncer) Tick(ctx context.Context) error {
	profile, err := s.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	messages, err := s.client.ListMessages(ctx)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}

	contacts, err := s.client.ListContacts(ctx)
	if err != nil {
		return fmt.Errorf("fetch contacts: %w", err)
	}

	var roster []models.RosterEntry
	if s.opts.IsAdmin {
		roster, err = s.client.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("fetch roster: %w", err)
		}
	}

	if s.opts.OnProfile != nil {
		s.opts.OnProfile(*profile)
	}

	newInbound := s.model.ReplaceMessages(messages)
	s.model.ReplaceContacts(contacts)
	if s.opts.IsAdmin {
		s.model.ReplaceRoster(roster)
	}

	// Suppress the notification storm on the very first fetch: everything is
	// "new" then, the user is just loading history.
	if newInbound > 0 && s.fetched && s.opts.OnNewMessages != nil {
		s.opts.OnNewMessages(newInbound)
	}
	s.fetched = true
	return nil
}
