package activity

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only activity log row. ProfileID is the owner whose
// record was touched; ActorUserID is the account that made the change, and
// ActorProfileID its confirmed profile when attribution resolved.
type Entry struct {
	ID             uuid.UUID              `json:"id"`
	ProfileID      uuid.UUID              `json:"profileId"`
	ActorUserID    string                 `json:"actorUserId"`
	ActorProfileID *uuid.UUID             `json:"actorProfileId,omitempty"`
	Domain         string                 `json:"domain"`
	Action         string                 `json:"action"`
	EntityID       string                 `json:"entityId"`
	EntityLabel    string                 `json:"entityLabel"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// Change is one field-level before/after pair carried in the metadata of an
// update entry.
type Change struct {
	Field  string      `json:"field"`
	Label  string      `json:"label"`
	Before interface{} `json:"before"`
	After  interface{} `json:"after"`
}

// Actions recorded by the mutation pipeline.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
