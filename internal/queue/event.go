// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// Decision strings carried by ReservationDecidedEvent.
const (
	DecisionConfirmed = "confirmed"
	DecisionDeclined  = "declined"
	DecisionPending   = "pending"
)

// DecisionFromConfirmed maps the tri-state confirmation flag onto its
// decision string.
func DecisionFromConfirmed(confirmed *bool) string {
	switch {
	case confirmed == nil:
		return DecisionPending
	case *confirmed:
		return DecisionConfirmed
	default:
		return DecisionDeclined
	}
}

// ReservationDecidedEvent is published whenever an administrator confirms,
// declines or resets a reservation.  It carries enough information for
// downstream consumers to log or notify without querying the primary
// database.
type ReservationDecidedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	Decision      string `json:"decision"`
	DecidedAt     string `json:"decided_at"`
}
