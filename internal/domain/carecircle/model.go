package carecircle

import (
	"time"

	"github.com/google/uuid"
)

// LinkStatus is the lifecycle state of a care circle invitation.
type LinkStatus string

const (
	StatusPending  LinkStatus = "pending"
	StatusAccepted LinkStatus = "accepted"
	StatusDeclined LinkStatus = "declined"
)

// Link is a delegation edge between two accounts. The requester owns the
// records; the recipient is the circle member the invitation was sent to.
// Links are created and accepted by the invite flow, which lives outside
// this service; here they are read-only.
type Link struct {
	ID             uuid.UUID  `json:"id"`
	RequesterID    string     `json:"requesterId"`
	RecipientID    string     `json:"recipientId"`
	Status         LinkStatus `json:"status"`
	Relationship   string     `json:"relationship"`
	OwnerProfileID *uuid.UUID `json:"ownerProfileId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Role is the capability tier derived from a link's relationship label.
type Role string

const (
	// RoleFamily may mutate the owner's records.
	RoleFamily Role = "family"
	// RoleFriend is view-only.
	RoleFriend Role = "friend"
)
