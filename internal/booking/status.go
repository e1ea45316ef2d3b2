package booking

// Status is the persisted lifecycle value of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// validTransitions defines the booking state machine. A decision is final.
// CANCELED is a valid stored value with no path into it yet.
var validTransitions = map[Status][]Status{
	StatusWaiting:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
	StatusCanceled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts only the exact upper-case names.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.IsValid()
}

// decision maps the owner's answer to the resulting status.
func decision(approve bool) Status {
	if approve {
		return StatusApproved
	}
	return StatusRejected
}
