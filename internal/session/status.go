package session

type Status uint32

const (
	StatusIdle = Status(iota)
	StatusCheckedOut
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusCheckedOut:
		return "CheckedOut"
	case StatusDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}
