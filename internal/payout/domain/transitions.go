package domain

// transitions is the closed set of legal status edges. settled has no
// outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusOnHold, StatusFailed},
	StatusProcessing: {StatusSettled, StatusFailed, StatusOnHold},
	StatusOnHold:     {StatusPending, StatusProcessing, StatusFailed},
	StatusFailed:     {StatusPending},
	StatusSettled:    {},
}

// ValidStatus reports whether s is a known payout status.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	for _, next := range allowed {
		if next == to {
			return true
		}
	}
	return false
}

// AllStatuses returns every known payout status.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusSettled, StatusOnHold, StatusFailed}
}
