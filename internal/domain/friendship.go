package domain

import "time"

const (
	FriendshipPending  = "PENDING"
	FriendshipAccepted = "ACCEPTED"
)

// Friendship modela la relacion entre quien envia la solicitud y quien la recibe.
type Friendship struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requester_id"`
	AddresseeID string     `json:"addressee_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

// Other devuelve el id del otro extremo de la relacion.
func (f Friendship) Other(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
