package booking

import "time"

// State is a listing bucket. Unlike Status it is not stored: CURRENT, PAST
// and FUTURE are derived from the booking window at query time.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// scopes is the dispatch table from a listing bucket to the store filter.
var scopes = map[State]func(now time.Time) Scope{
	StateAll:      func(time.Time) Scope { return AllScope() },
	StateCurrent:  CurrentAt,
	StatePast:     PastAt,
	StateFuture:   FutureAt,
	StateWaiting:  func(time.Time) Scope { return WithStatus(StatusWaiting) },
	StateRejected: func(time.Time) Scope { return WithStatus(StatusRejected) },
}

// ParseState parses a listing bucket. Empty means ALL; anything else must be
// an exact upper-case name or ErrUnknownState is returned.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	s := State(raw)
	if _, ok := scopes[s]; !ok {
		return "", ErrUnknownState
	}
	return s, nil
}

// Scope returns the store filter for this bucket evaluated at now.
func (s State) Scope(now time.Time) Scope {
	return scopes[s](now)
}

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeCurrent
	scopePast
	scopeFuture
	scopeStatus
)

// Scope is the filter a list query applies on top of the booker or owner.
type Scope struct {
	kind   scopeKind
	now    time.Time
	status Status
}

func AllScope() Scope { return Scope{kind: scopeAll} }

// CurrentAt matches start <= now <= end.
func CurrentAt(now time.Time) Scope { return Scope{kind: scopeCurrent, now: now} }

// PastAt matches end < now.
func PastAt(now time.Time) Scope { return Scope{kind: scopePast, now: now} }

// FutureAt matches start > now.
func FutureAt(now time.Time) Scope { return Scope{kind: scopeFuture, now: now} }

func WithStatus(s Status) Scope { return Scope{kind: scopeStatus, status: s} }

// Matches reports whether b falls in the scope. It mirrors the SQL filter and
// is used by in-memory stores.
func (sc Scope) Matches(b *Booking) bool {
	switch sc.kind {
	case scopeCurrent:
		return !b.Start.After(sc.now) && !b.End.Before(sc.now)
	case scopePast:
		return b.End.Before(sc.now)
	case scopeFuture:
		return b.Start.After(sc.now)
	case scopeStatus:
		return b.Status == sc.status
	default:
		return true
	}
}
