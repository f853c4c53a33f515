package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const identity = "alice@OnliMess"

func TestStartTypingSetsAndAutoClears(t *testing.T) {
	tr := NewTracker(30 * time.Millisecond)

	tr.StartTyping(identity)
	require.True(t, tr.IsTyping(identity))

	require.Eventually(t, func() bool {
		return !tr.IsTyping(identity)
	}, time.Second, 5*time.Millisecond)
}

func TestStartTypingDebouncesInsteadOfStacking(t *testing.T) {
	tr := NewTracker(60 * time.Millisecond)

	tr.StartTyping(identity)
	time.Sleep(40 * time.Millisecond)
	tr.StartTyping(identity) // reschedules; old timer must not fire

	// Past the first timer's original deadline the flag still holds, because
	// the delay is measured from the last call.
	time.Sleep(40 * time.Millisecond)
	require.True(t, tr.IsTyping(identity))

	require.Eventually(t, func() bool {
		return !tr.IsTyping(identity)
	}, time.Second, 5*time.Millisecond)
}

func TestStartTypingRaceWithExpiredTimer(t *testing.T) {
	delay := 20 * time.Millisecond
	tr := NewTracker(delay)

	// Sleep exactly the delay so the old reset callback fires right as the
	// next keystroke lands. A stale callback that lost the Stop race must not
	// clear the flag the new call just set.
	for i := 0; i < 20; i++ {
		tr.StartTyping(identity)
		time.Sleep(delay)
		tr.StartTyping(identity)
		time.Sleep(delay / 4)
		require.True(t, tr.IsTyping(identity), "iteration %d: flag cleared before the delay since the last call", i)
		tr.StopTyping(identity)
	}
}

func TestStopTypingClearsImmediately(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.StartTyping(identity)
	tr.StopTyping(identity)
	require.False(t, tr.IsTyping(identity))

	// The cancelled timer must not fire later against a new typing state.
	tr.StartTyping(identity)
	time.Sleep(20 * time.Millisecond)
	require.True(t, tr.IsTyping(identity))
	tr.Reset()
}

func TestResetCancelsAllTimers(t *testing.T) {
	tr := NewTracker(time.Minute)

	tr.StartTyping("a@OnliMess")
	tr.StartTyping("b@OnliMess")
	tr.Reset()

	require.False(t, tr.IsTyping("a@OnliMess"))
	require.False(t, tr.IsTyping("b@OnliMess"))
}

func TestLastSeenBuckets(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"just now", 10 * time.Second, "online"},
		{"minutes", 5 * time.Minute, "5 min ago"},
		{"hours", 3 * time.Hour, "3 hr ago"},
		{"days", 49 * time.Hour, "2 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.Add(-tt.ago).UnixMilli()
			require.Equal(t, tt.want, LastSeen(now, last, true))
		})
	}
}

func TestLastSeenPlaceholder(t *testing.T) {
	require.Equal(t, Placeholder, LastSeen(time.Now(), 0, false))
}
