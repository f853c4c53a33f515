// Package presence tracks ephemeral typing flags and derives last-seen
// labels from message timestamps. Nothing here is persisted; state is reset
// on logout and lost on restart.
package presence

import (
	"fmt"
	"sync"
	"time"
)

// Placeholder is the label shown when no heuristic applies: the identity has
// never sent a message or has never completed setup.
const Placeholder = "recently"

// Online is the label for activity within the last minute.
const Online = "online"

// Tracker keeps the identity → typing flag map. Each StartTyping call
// reschedules a single pending reset per identity; timers never stack.
type Tracker struct {
	mu     sync.Mutex
	delay  time.Duration
	typing map[string]bool
	timers map[string]*time.Timer
	gens   map[string]uint64
}

// NewTracker builds a tracker whose typing flags auto-clear after delay.
func NewTracker(delay time.Duration) *Tracker {
	return &Tracker{
		delay:  delay,
		typing: make(map[string]bool),
		timers: make(map[string]*time.Timer),
		gens:   make(map[string]uint64),
	}
}

// StartTyping sets the flag for identity and schedules its reset. A repeat
// call within the delay cancels and replaces the pending timer (debounce),
// so the flag clears only after the delay since the last keystroke.
//
// Stop cannot cancel a timer whose callback has already fired and is waiting
// on the mutex, so each reset carries the generation it was scheduled for
// and clears nothing once a newer keystroke has superseded it.
func (t *Tracker) StartTyping(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.typing[identity] = true
	if timer, ok := t.timers[identity]; ok {
		timer.Stop()
	}

	t.gens[identity]++
	gen := t.gens[identity]
	t.timers[identity] = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gens[identity] != gen {
			return
		}
		delete(t.typing, identity)
		delete(t.timers, identity)
	})
}

// StopTyping clears the flag immediately, cancelling any pending reset.
// Called on send.
func (t *Tracker) StopTyping(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[identity]++
	if timer, ok := t.timers[identity]; ok {
		timer.Stop()
		delete(t.timers, identity)
	}
	delete(t.typing, identity)
}

// IsTyping reports the current flag for identity.
func (t *Tracker) IsTyping(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.typing[identity]
}

// Reset cancels every pending timer and clears all flags. Called when the
// session ends; a leaked timer would raise phantom typing flags afterwards.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for identity, timer := range t.timers {
		timer.Stop()
		delete(t.timers, identity)
	}
	for identity := range t.gens {
		t.gens[identity]++
	}
	clear(t.typing)
}

// LastSeen derives a presence label from the most recent message authored by
// an identity. It is an approximation from message traffic only; there are
// no heartbeats. Pass ok=false when the identity has never sent a message.
func LastSeen(now time.Time, lastAuthoredMilli int64, ok bool) string {
	if !ok {
		return Placeholder
	}

	diff := now.Sub(time.UnixMilli(lastAuthoredMilli))
	switch {
	case diff < time.Minute:
		return Online
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hr ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}
}
