package audit

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/vneid/admin-dashboard/docstore"
)

// SchemaVersion tags every record written by this package.
const SchemaVersion = "1.0.0"

// ErrMalformedRecord rejects a record before any write is attempted.
var ErrMalformedRecord = fmt.Errorf("malformed audit record: %w", docstore.ErrMalformed)

// ActionKind is the kind of administrative mutation being recorded.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// Valid reports whether k may be persisted.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// ParseActionKind parses a filter value. The empty string is allowed and means "any".
func ParseActionKind(s string) (ActionKind, error) {
	k := ActionKind(s)
	if s == "" || k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("unknown action kind %q", s)
}

func (k ActionKind) label() string {
	if k.Valid() {
		return string(k)
	}
	return "invalid"
}

// Details is the kind-specific payload of a Record.
type Details interface {
	Kind() ActionKind
}

type CreateDetails struct {
	Profile                map[string]string            `json:"profile"`
	RelatedEntitiesCreated map[string]bool              `json:"related_entities_created"`
	RelatedEntities        map[string]map[string]string `json:"related_entities,omitempty"`
	CreatedAt              string                       `json:"created_at"`
}

func (CreateDetails) Kind() ActionKind { return ActionCreate }

type UpdateDetails struct {
	UpdatedCollection string         `json:"updated_collection"`
	Changes           map[string]any `json:"changes"`
	FieldsModified    []string       `json:"fields_modified"`
	UpdatedAt         string         `json:"updated_at"`
}

func (UpdateDetails) Kind() ActionKind { return ActionUpdate }

type DeleteDetails struct {
	DeletedID          string   `json:"deleted_id"`
	DeletedLabel       string   `json:"deleted_label"`
	DeletedCollections []string `json:"deleted_collections"`
	Cascade            bool     `json:"cascade"`
	DeletedAt          string   `json:"deleted_at"`
}

func (DeleteDetails) Kind() ActionKind { return ActionDelete }

// Record is one audit entry. ID is the store-assigned document ID and is
// empty until the record has been written.
type Record struct {
	ID            string     `json:"id,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	AdminIdentity string     `json:"admin_identity"`
	ActionKind    ActionKind `json:"action_kind"`
	TargetID      string     `json:"target_id,omitempty"`
	TargetLabel   string     `json:"target_label,omitempty"`
	Details       Details    `json:"details"`
	OriginAddress string     `json:"origin_address,omitempty"`
	SchemaVersion string     `json:"schema_version"`
	SessionToken  string     `json:"session_token,omitempty"`
}

// RelatedEntity is an entity created alongside the primary one, e.g. a
// citizen card written in the same user creation.
type RelatedEntity struct {
	Name    string
	Created bool
	Summary map[string]string
}

// CreationSummary describes a newly created entity.
type CreationSummary struct {
	ID      string
	Label   string
	Profile map[string]string
	Related []RelatedEntity
}

func (r Record) validate() error {
	if !r.ActionKind.Valid() {
		return fmt.Errorf("action kind %q: %w", r.ActionKind, ErrMalformedRecord)
	}
	if r.Details == nil || r.Details.Kind() != r.ActionKind {
		return fmt.Errorf("details do not match action kind %q: %w", r.ActionKind, ErrMalformedRecord)
	}
	if r.AdminIdentity == "" {
		return fmt.Errorf("missing admin identity: %w", ErrMalformedRecord)
	}
	if r.ActionKind == ActionDelete && r.TargetID == "" {
		return fmt.Errorf("delete without target id: %w", ErrMalformedRecord)
	}
	return nil
}

// recordDoc is the stored shape of a Record. Details are flattened to a map so
// each backend persists only the keys of the record's own kind.
type recordDoc struct {
	Timestamp     time.Time      `json:"timestamp" firestore:"timestamp" bson:"timestamp"`
	AdminIdentity string         `json:"admin_identity" firestore:"admin_identity" bson:"admin_identity"`
	ActionKind    string         `json:"action_kind" firestore:"action_kind" bson:"action_kind"`
	TargetID      string         `json:"target_id" firestore:"target_id" bson:"target_id"`
	TargetLabel   string         `json:"target_label" firestore:"target_label" bson:"target_label"`
	Details       map[string]any `json:"details" firestore:"details" bson:"details"`
	OriginAddress string         `json:"origin_address" firestore:"origin_address" bson:"origin_address"`
	SchemaVersion string         `json:"schema_version" firestore:"schema_version" bson:"schema_version"`
	SessionToken  string         `json:"session_token" firestore:"session_token" bson:"session_token"`
}

// storedRecord is the decode side of recordDoc.
type storedRecord struct {
	Timestamp     time.Time  `json:"timestamp" firestore:"timestamp" bson:"timestamp"`
	AdminIdentity string     `json:"admin_identity" firestore:"admin_identity" bson:"admin_identity"`
	ActionKind    string     `json:"action_kind" firestore:"action_kind" bson:"action_kind"`
	TargetID      string     `json:"target_id" firestore:"target_id" bson:"target_id"`
	TargetLabel   string     `json:"target_label" firestore:"target_label" bson:"target_label"`
	Details       detailsDoc `json:"details" firestore:"details" bson:"details"`
	OriginAddress string     `json:"origin_address" firestore:"origin_address" bson:"origin_address"`
	SchemaVersion string     `json:"schema_version" firestore:"schema_version" bson:"schema_version"`
	SessionToken  string     `json:"session_token" firestore:"session_token" bson:"session_token"`
}

type detailsDoc struct {
	Profile                map[string]string            `json:"profile" firestore:"profile" bson:"profile"`
	RelatedEntitiesCreated map[string]bool              `json:"related_entities_created" firestore:"related_entities_created" bson:"related_entities_created"`
	RelatedEntities        map[string]map[string]string `json:"related_entities" firestore:"related_entities" bson:"related_entities"`
	CreatedAt              string                       `json:"created_at" firestore:"created_at" bson:"created_at"`

	UpdatedCollection string         `json:"updated_collection" firestore:"updated_collection" bson:"updated_collection"`
	Changes           map[string]any `json:"changes" firestore:"changes" bson:"changes"`
	FieldsModified    []string       `json:"fields_modified" firestore:"fields_modified" bson:"fields_modified"`
	UpdatedAt         string         `json:"updated_at" firestore:"updated_at" bson:"updated_at"`

	DeletedID          string   `json:"deleted_id" firestore:"deleted_id" bson:"deleted_id"`
	DeletedLabel       string   `json:"deleted_label" firestore:"deleted_label" bson:"deleted_label"`
	DeletedCollections []string `json:"deleted_collections" firestore:"deleted_collections" bson:"deleted_collections"`
	Cascade            bool     `json:"cascade" firestore:"cascade" bson:"cascade"`
	DeletedAt          string   `json:"deleted_at" firestore:"deleted_at" bson:"deleted_at"`
}

func (r Record) document() recordDoc {
	return recordDoc{
		Timestamp:     r.Timestamp,
		AdminIdentity: r.AdminIdentity,
		ActionKind:    string(r.ActionKind),
		TargetID:      r.TargetID,
		TargetLabel:   r.TargetLabel,
		Details:       detailsMap(r.Details),
		OriginAddress: r.OriginAddress,
		SchemaVersion: r.SchemaVersion,
		SessionToken:  r.SessionToken,
	}
}

func detailsMap(d Details) map[string]any {
	switch d := d.(type) {
	case CreateDetails:
		m := map[string]any{
			"profile":                  nonNilStrings(d.Profile),
			"related_entities_created": nonNilFlags(d.RelatedEntitiesCreated),
			"created_at":               d.CreatedAt,
		}
		if len(d.RelatedEntities) > 0 {
			m["related_entities"] = d.RelatedEntities
		}
		return m
	case UpdateDetails:
		changes := d.Changes
		if changes == nil {
			changes = map[string]any{}
		}
		fields := d.FieldsModified
		if fields == nil {
			fields = []string{}
		}
		return map[string]any{
			"updated_collection": d.UpdatedCollection,
			"changes":            changes,
			"fields_modified":    fields,
			"updated_at":         d.UpdatedAt,
		}
	case DeleteDetails:
		collections := d.DeletedCollections
		if collections == nil {
			collections = []string{}
		}
		return map[string]any{
			"deleted_id":          d.DeletedID,
			"deleted_label":       d.DeletedLabel,
			"deleted_collections": collections,
			"cascade":             d.Cascade,
			"deleted_at":          d.DeletedAt,
		}
	}
	return nil
}

func (s storedRecord) record(id string) (Record, error) {
	kind := ActionKind(s.ActionKind)
	rec := Record{
		ID:            id,
		Timestamp:     s.Timestamp.UTC(),
		AdminIdentity: s.AdminIdentity,
		ActionKind:    kind,
		TargetID:      s.TargetID,
		TargetLabel:   s.TargetLabel,
		OriginAddress: s.OriginAddress,
		SchemaVersion: s.SchemaVersion,
		SessionToken:  s.SessionToken,
	}

	d := s.Details
	switch kind {
	case ActionCreate:
		rec.Details = CreateDetails{
			Profile:                d.Profile,
			RelatedEntitiesCreated: d.RelatedEntitiesCreated,
			RelatedEntities:        d.RelatedEntities,
			CreatedAt:              d.CreatedAt,
		}
	case ActionUpdate:
		rec.Details = UpdateDetails{
			UpdatedCollection: d.UpdatedCollection,
			Changes:           d.Changes,
			FieldsModified:    d.FieldsModified,
			UpdatedAt:         d.UpdatedAt,
		}
	case ActionDelete:
		rec.Details = DeleteDetails{
			DeletedID:          d.DeletedID,
			DeletedLabel:       d.DeletedLabel,
			DeletedCollections: d.DeletedCollections,
			Cascade:            d.Cascade,
			DeletedAt:          d.DeletedAt,
		}
	default:
		return Record{}, fmt.Errorf("stored record %s has action kind %q: %w", id, s.ActionKind, ErrMalformedRecord)
	}
	return rec, nil
}

func decodeRecord(doc *docstore.Document) (Record, error) {
	var s storedRecord
	if err := doc.DataTo(&s); err != nil {
		return Record{}, errors.Join(ErrMalformedRecord, err)
	}
	return s.record(doc.ID)
}

func creationDetails(summary CreationSummary, at string) CreateDetails {
	d := CreateDetails{
		Profile:                maps.Clone(summary.Profile),
		RelatedEntitiesCreated: make(map[string]bool, len(summary.Related)),
		CreatedAt:              at,
	}
	for _, rel := range summary.Related {
		d.RelatedEntitiesCreated[rel.Name] = rel.Created
		if rel.Created && len(rel.Summary) > 0 {
			if d.RelatedEntities == nil {
				d.RelatedEntities = make(map[string]map[string]string)
			}
			d.RelatedEntities[rel.Name] = maps.Clone(rel.Summary)
		}
	}
	return d
}

func updateDetails(changes map[string]any, collection, at string) UpdateDetails {
	fields := slices.Sorted(maps.Keys(changes))
	if fields == nil {
		fields = []string{}
	}
	return UpdateDetails{
		UpdatedCollection: collection,
		Changes:           maps.Clone(changes),
		FieldsModified:    fields,
		UpdatedAt:         at,
	}
}

func nonNilStrings(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilFlags(m map[string]bool) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	return m
}
