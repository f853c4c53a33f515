package session

// State is the lifecycle position of the client session.
//
// Transitions: Unauthenticated → (FirstLoginSetup | Active) on login,
// FirstLoginSetup → Active on completed setup, Active ↔ Frozen as the
// authoritative frozen flag is re-read, Active → Unauthenticated on logout.
type State int

const (
	Unauthenticated State = iota
	FirstLoginSetup
	Active
	Frozen
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case FirstLoginSetup:
		return "setup"
	case Active:
		return "active"
	case Frozen:
		return "frozen"
	default:
		return "unknown"
	}
}
