package constants

// Redis key naming. Keys are namespaced by concern so invalidation can use
// pattern deletes without touching unrelated data.

const (
	// Tour cache
	KeyTourByID      = "tours:id:%s"     // tours:id:<uuid>
	KeyTourList      = "tours:list:%s"   // tours:list:<query hash>
	PatternToursAll  = "tours:*"         // invalidate on any tour write
	KeyLinkedTours   = "tours:linked:%s" // tours:linked:<uuid>

	// Booking workflow sessions
	KeyBookingSession = "bookings:session:%s" // bookings:session:<session id>

	// Discount lookups
	KeyDiscountByCode = "discounts:code:%s" // discounts:code:<code>
	PatternDiscounts  = "discounts:*"
)
