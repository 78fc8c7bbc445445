package bookings

// Status represents the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether an admin may move a booking from s to
// target. Bookings are created pending and only ever move forward.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCancelled
	default:
		return false
	}
}

// BookingType distinguishes per-person pricing from a flat charter
type BookingType string

const (
	BookingTypePerPerson BookingType = "PER_PERSON"
	BookingTypeFullYacht BookingType = "FULL_YACHT"
)

func (t BookingType) IsValid() bool {
	return t == BookingTypePerPerson || t == BookingTypeFullYacht
}
