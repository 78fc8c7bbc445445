package tours

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsBookable checks if tours with this status accept new bookings
func (s Status) IsBookable() bool {
	return s == StatusActive
}
