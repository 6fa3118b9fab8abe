package order

// Order lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition applies the single guarded rule: a delivered order cannot be
// moved back to pending. Every other pair of valid statuses is allowed,
// including skipping confirmed. That permissiveness is deliberate.
func CanTransition(current, next string) bool {
	return !(current == StatusDelivered && next == StatusPending)
}
