package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebook/carebook/internal/domain/activity"
	"github.com/carebook/carebook/internal/domain/carecircle"
	"github.com/carebook/carebook/internal/domain/profile"
)

// kindStore pairs a schema with the row store holding its lists.
type kindStore struct {
	schema *Schema
	rows   RowRepository
}

// Service runs the delegated mutation pipeline: authorize happens upstream
// (the caller passes a carecircle.Access), then load, normalize, validate,
// replace the whole list, and record the activity entry.
type Service struct {
	kinds  map[string]kindStore
	actors *profile.Service
	log    *activity.Service
}

func NewService(appointments, medications RowRepository, actors *profile.Service, log *activity.Service) *Service {
	return &Service{
		kinds: map[string]kindStore{
			AppointmentSchema.Kind: {schema: AppointmentSchema, rows: appointments},
			MedicationSchema.Kind:  {schema: MedicationSchema, rows: medications},
		},
		actors: actors,
		log:    log,
	}
}

func (s *Service) kind(kind string) (kindStore, error) {
	ks, ok := s.kinds[kind]
	if !ok {
		return kindStore{}, fmt.Errorf("unknown record kind %q", kind)
	}
	return ks, nil
}

// List returns the owner's current record list for the kind.
func (s *Service) List(ctx context.Context, kind string, access *carecircle.Access) ([]Record, error) {
	ks, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	return ks.rows.Get(ctx, access.OwnerProfileID)
}

// Create normalizes and validates one record, appends it to the owner's
// list, and records an "add" activity entry. A missing id is generated; a
// colliding one is rejected.
func (s *Service) Create(ctx context.Context, kind string, access *carecircle.Access, claimedActor *uuid.UUID, input Record) (Record, []Record, error) {
	ks, err := s.kind(kind)
	if err != nil {
		return nil, nil, err
	}

	record := ks.schema.Normalize(input)
	if record.ID() == "" {
		record["id"] = uuid.New().String()
	}
	if err := ks.schema.Validate(record); err != nil {
		return nil, nil, err
	}

	list, err := ks.rows.Get(ctx, access.OwnerProfileID)
	if err != nil {
		return nil, nil, err
	}
	for _, existing := range list {
		if existing.ID() == record.ID() {
			return nil, nil, ErrDuplicateID
		}
	}

	next := append(list, record)
	if err := ks.rows.Upsert(ctx, access.OwnerProfileID, access.OwnerUserID, next); err != nil {
		return nil, nil, err
	}

	s.record(ctx, ks.schema, access, claimedActor, activity.ActionAdd, record, nil)
	return record, next, nil
}

// Update merges the supplied fields over the stored record, re-normalizes
// the result, and replaces it in the list. The activity entry carries the
// field-level change set; an empty set is still recorded so the feed shows
// the touch.
func (s *Service) Update(ctx context.Context, kind string, access *carecircle.Access, claimedActor *uuid.UUID, input Record) (Record, []Record, error) {
	ks, err := s.kind(kind)
	if err != nil {
		return nil, nil, err
	}

	id := input.ID()
	if id == "" {
		return nil, nil, &ValidationError{Missing: []string{"id"}}
	}

	list, err := ks.rows.Get(ctx, access.OwnerProfileID)
	if err != nil {
		return nil, nil, err
	}

	index := -1
	for i, existing := range list {
		if existing.ID() == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, nil, ErrNotFound
	}

	prev := list[index]
	merged := prev.Clone()
	for key, value := range input {
		merged[key] = value
	}
	record := ks.schema.Normalize(merged)
	record["id"] = id
	if err := ks.schema.Validate(record); err != nil {
		return nil, nil, err
	}

	changes := Changes(ks.schema, prev, record)

	next := make([]Record, len(list))
	copy(next, list)
	next[index] = record
	if err := ks.rows.Upsert(ctx, access.OwnerProfileID, access.OwnerUserID, next); err != nil {
		return nil, nil, err
	}

	extra := map[string]interface{}{
		"changes":     changes,
		"changeCount": len(changes),
	}
	s.record(ctx, ks.schema, access, claimedActor, activity.ActionUpdate, record, extra)
	return record, next, nil
}

// Delete removes the record with the given id from the owner's list and
// records a "delete" activity entry.
func (s *Service) Delete(ctx context.Context, kind string, access *carecircle.Access, claimedActor *uuid.UUID, recordID string) ([]Record, error) {
	ks, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	if recordID == "" {
		return nil, &ValidationError{Missing: []string{"id"}}
	}

	list, err := ks.rows.Get(ctx, access.OwnerProfileID)
	if err != nil {
		return nil, err
	}

	var removed Record
	next := make([]Record, 0, len(list))
	for _, existing := range list {
		if existing.ID() == recordID {
			removed = existing
			continue
		}
		next = append(next, existing)
	}
	if removed == nil {
		return nil, ErrNotFound
	}

	if err := ks.rows.Upsert(ctx, access.OwnerProfileID, access.OwnerUserID, next); err != nil {
		return nil, err
	}

	s.record(ctx, ks.schema, access, claimedActor, activity.ActionDelete, removed, nil)
	return next, nil
}

// record resolves actor attribution and appends the activity entry. It runs
// after persistence; failures stay inside the activity service. Metadata
// always carries the schema's summary fields; updates add the change set on
// top via extra.
func (s *Service) record(ctx context.Context, schema *Schema, access *carecircle.Access, claimedActor *uuid.UUID, action string, rec Record, extra map[string]interface{}) {
	metadata := make(map[string]interface{}, len(schema.SummaryFields)+len(extra))
	for _, field := range schema.SummaryFields {
		if value, ok := rec[field]; ok {
			metadata[field] = value
		}
	}
	for key, value := range extra {
		metadata[key] = value
	}

	actorProfileID := s.actors.ResolveActor(ctx, access.ActorUserID, claimedActor)
	s.log.Record(ctx, &activity.Entry{
		ProfileID:      access.OwnerProfileID,
		ActorUserID:    access.ActorUserID,
		ActorProfileID: actorProfileID,
		Domain:         schema.Domain,
		Action:         action,
		EntityID:       rec.ID(),
		EntityLabel:    schema.EntityLabel(rec),
		Metadata:       metadata,
	})
}
