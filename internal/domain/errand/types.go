package errand

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusPickedUp   Status = "picked_up"
	StatusDroppedOff Status = "dropped_off"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// forward is the only order in which an errand may advance.
var forward = []Status{StatusPending, StatusAssigned, StatusPickedUp, StatusDroppedOff, StatusCompleted}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusPickedUp, StatusDroppedOff, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// Next returns the status that directly follows s, if any.
func (s Status) Next() (Status, bool) {
	for i := 0; i < len(forward)-1; i++ {
		if forward[i] == s {
			return forward[i+1], true
		}
	}
	return "", false
}
