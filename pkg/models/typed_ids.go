package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	surrealdb_models "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Each entity gets its own UUID-backed ID type so that a journal ID can never
// be passed where a contact ID is expected. Every type carries the same set of
// conversions: JSON (API payloads), CBOR tag 8 (SurrealDB record IDs), and
// database/sql Valuer/Scanner (PostgreSQL via GORM).

// UserID identifies a registered account.
type UserID struct {
	uuid uuid.UUID
}

func NewUserID() UserID {
	return UserID{uuid: uuid.New()}
}

func NewUserIDFromUUID(id uuid.UUID) UserID {
	return UserID{uuid: id}
}

func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user ID: %w", err)
	}
	return UserID{uuid: id}, nil
}

func (u UserID) UUID() uuid.UUID { return u.uuid }
func (u UserID) String() string  { return u.uuid.String() }
func (u UserID) IsZero() bool    { return u.uuid == uuid.Nil }

func (u UserID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "users", ID: u.uuid.String()}
}

func (u UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.uuid.String())
}

func (u *UserID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &u.uuid)
}

func (u UserID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("users", u.uuid)
}

func (u *UserID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "users", &u.uuid)
}

func (u UserID) Value() (driver.Value, error) {
	if u.IsZero() {
		return nil, nil
	}
	return u.uuid.String(), nil
}

func (u *UserID) Scan(value any) error {
	return scanUUID(value, &u.uuid)
}

func (UserID) GormDataType() string { return "uuid" }

// ChildID identifies a child record.
type ChildID struct {
	uuid uuid.UUID
}

func NewChildID() ChildID {
	return ChildID{uuid: uuid.New()}
}

func ParseChildID(s string) (ChildID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ChildID{}, fmt.Errorf("invalid child ID: %w", err)
	}
	return ChildID{uuid: id}, nil
}

func (c ChildID) UUID() uuid.UUID { return c.uuid }
func (c ChildID) String() string  { return c.uuid.String() }
func (c ChildID) IsZero() bool    { return c.uuid == uuid.Nil }

func (c ChildID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "children", ID: c.uuid.String()}
}

func (c ChildID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.uuid.String())
}

func (c *ChildID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &c.uuid)
}

func (c ChildID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("children", c.uuid)
}

func (c *ChildID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "children", &c.uuid)
}

func (c ChildID) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return c.uuid.String(), nil
}

func (c *ChildID) Scan(value any) error {
	return scanUUID(value, &c.uuid)
}

func (ChildID) GormDataType() string { return "uuid" }

// JournalID identifies a journal entry.
type JournalID struct {
	uuid uuid.UUID
}

func NewJournalID() JournalID {
	return JournalID{uuid: uuid.New()}
}

func ParseJournalID(s string) (JournalID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return JournalID{}, fmt.Errorf("invalid journal ID: %w", err)
	}
	return JournalID{uuid: id}, nil
}

func (j JournalID) UUID() uuid.UUID { return j.uuid }
func (j JournalID) String() string  { return j.uuid.String() }
func (j JournalID) IsZero() bool    { return j.uuid == uuid.Nil }

func (j JournalID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "journals", ID: j.uuid.String()}
}

func (j JournalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.uuid.String())
}

func (j *JournalID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &j.uuid)
}

func (j JournalID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("journals", j.uuid)
}

func (j *JournalID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "journals", &j.uuid)
}

func (j JournalID) Value() (driver.Value, error) {
	if j.IsZero() {
		return nil, nil
	}
	return j.uuid.String(), nil
}

func (j *JournalID) Scan(value any) error {
	return scanUUID(value, &j.uuid)
}

func (JournalID) GormDataType() string { return "uuid" }

// ViolationID identifies a violation log entry.
type ViolationID struct {
	uuid uuid.UUID
}

func NewViolationID() ViolationID {
	return ViolationID{uuid: uuid.New()}
}

func ParseViolationID(s string) (ViolationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ViolationID{}, fmt.Errorf("invalid violation ID: %w", err)
	}
	return ViolationID{uuid: id}, nil
}

func (v ViolationID) UUID() uuid.UUID { return v.uuid }
func (v ViolationID) String() string  { return v.uuid.String() }
func (v ViolationID) IsZero() bool    { return v.uuid == uuid.Nil }

func (v ViolationID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "violations", ID: v.uuid.String()}
}

func (v ViolationID) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.uuid.String())
}

func (v *ViolationID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &v.uuid)
}

func (v ViolationID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("violations", v.uuid)
}

func (v *ViolationID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "violations", &v.uuid)
}

func (v ViolationID) Value() (driver.Value, error) {
	if v.IsZero() {
		return nil, nil
	}
	return v.uuid.String(), nil
}

func (v *ViolationID) Scan(value any) error {
	return scanUUID(value, &v.uuid)
}

func (ViolationID) GormDataType() string { return "uuid" }

// DocumentID identifies an uploaded file attachment.
type DocumentID struct {
	uuid uuid.UUID
}

func NewDocumentID() DocumentID {
	return DocumentID{uuid: uuid.New()}
}

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, fmt.Errorf("invalid document ID: %w", err)
	}
	return DocumentID{uuid: id}, nil
}

func (d DocumentID) UUID() uuid.UUID { return d.uuid }
func (d DocumentID) String() string  { return d.uuid.String() }
func (d DocumentID) IsZero() bool    { return d.uuid == uuid.Nil }

func (d DocumentID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "documents", ID: d.uuid.String()}
}

func (d DocumentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.uuid.String())
}

func (d *DocumentID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &d.uuid)
}

func (d DocumentID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("documents", d.uuid)
}

func (d *DocumentID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "documents", &d.uuid)
}

func (d DocumentID) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.uuid.String(), nil
}

func (d *DocumentID) Scan(value any) error {
	return scanUUID(value, &d.uuid)
}

func (DocumentID) GormDataType() string { return "uuid" }

// EventID identifies a calendar event.
type EventID struct {
	uuid uuid.UUID
}

func NewEventID() EventID {
	return EventID{uuid: uuid.New()}
}

func ParseEventID(s string) (EventID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EventID{}, fmt.Errorf("invalid event ID: %w", err)
	}
	return EventID{uuid: id}, nil
}

func (e EventID) UUID() uuid.UUID { return e.uuid }
func (e EventID) String() string  { return e.uuid.String() }
func (e EventID) IsZero() bool    { return e.uuid == uuid.Nil }

func (e EventID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "events", ID: e.uuid.String()}
}

func (e EventID) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.uuid.String())
}

func (e *EventID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &e.uuid)
}

func (e EventID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("events", e.uuid)
}

func (e *EventID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "events", &e.uuid)
}

func (e EventID) Value() (driver.Value, error) {
	if e.IsZero() {
		return nil, nil
	}
	return e.uuid.String(), nil
}

func (e *EventID) Scan(value any) error {
	return scanUUID(value, &e.uuid)
}

func (EventID) GormDataType() string { return "uuid" }

// ContactID identifies an address-book contact.
type ContactID struct {
	uuid uuid.UUID
}

func NewContactID() ContactID {
	return ContactID{uuid: uuid.New()}
}

func ParseContactID(s string) (ContactID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ContactID{}, fmt.Errorf("invalid contact ID: %w", err)
	}
	return ContactID{uuid: id}, nil
}

func (c ContactID) UUID() uuid.UUID { return c.uuid }
func (c ContactID) String() string  { return c.uuid.String() }
func (c ContactID) IsZero() bool    { return c.uuid == uuid.Nil }

func (c ContactID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "contacts", ID: c.uuid.String()}
}

func (c ContactID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.uuid.String())
}

func (c *ContactID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &c.uuid)
}

func (c ContactID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("contacts", c.uuid)
}

func (c *ContactID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "contacts", &c.uuid)
}

func (c ContactID) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return c.uuid.String(), nil
}

func (c *ContactID) Scan(value any) error {
	return scanUUID(value, &c.uuid)
}

func (ContactID) GormDataType() string { return "uuid" }

// ShareTokenID identifies a share token record. This is the management
// identifier, not the bearer secret; the secret is a separate opaque string
// that cannot be derived from this ID.
type ShareTokenID struct {
	uuid uuid.UUID
}

func NewShareTokenID() ShareTokenID {
	return ShareTokenID{uuid: uuid.New()}
}

func ParseShareTokenID(s string) (ShareTokenID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ShareTokenID{}, fmt.Errorf("invalid share token ID: %w", err)
	}
	return ShareTokenID{uuid: id}, nil
}

func (s ShareTokenID) UUID() uuid.UUID { return s.uuid }
func (s ShareTokenID) String() string  { return s.uuid.String() }
func (s ShareTokenID) IsZero() bool    { return s.uuid == uuid.Nil }

func (s ShareTokenID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{Table: "share_tokens", ID: s.uuid.String()}
}

func (s ShareTokenID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.uuid.String())
}

func (s *ShareTokenID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &s.uuid)
}

func (s ShareTokenID) MarshalCBOR() ([]byte, error) {
	return marshalCBORID("share_tokens", s.uuid)
}

func (s *ShareTokenID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "share_tokens", &s.uuid)
}

func (s ShareTokenID) Value() (driver.Value, error) {
	if s.IsZero() {
		return nil, nil
	}
	return s.uuid.String(), nil
}

func (s *ShareTokenID) Scan(value any) error {
	return scanUUID(value, &s.uuid)
}

func (ShareTokenID) GormDataType() string { return "uuid" }

func unmarshalJSONID(data []byte, target *uuid.UUID) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = id
	return nil
}

// marshalCBORID encodes an ID as a SurrealDB RecordID. SurrealDB identifies
// RecordID values with CBOR tag 8, encoded as a [table, id] pair.
func marshalCBORID(table string, id uuid.UUID) ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{table, id.String()},
	})
}

func unmarshalCBORID(data []byte, expectedTable string, target *uuid.UUID) error {
	if len(data) == 0 {
		return fmt.Errorf("empty CBOR data")
	}

	// Major type 6 is a CBOR tag; anything else is not a RecordID.
	majorType := data[0] >> 5
	if majorType != 6 {
		return fmt.Errorf("expected CBOR tag for RecordID, got major type %d", majorType)
	}

	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal CBOR tag: %w", err)
	}

	if tag.Number != 8 {
		return fmt.Errorf("expected RecordID tag (8), got %d", tag.Number)
	}

	arr, ok := tag.Content.([]any)
	if !ok || len(arr) != 2 {
		return fmt.Errorf("invalid RecordID format: expected [table, id] array")
	}

	table, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: table name must be string")
	}

	if table != expectedTable {
		return fmt.Errorf("expected table %s, got %s", expectedTable, table)
	}

	idStr, ok := arr[1].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: ID must be string")
	}

	parsedUUID, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid UUID in RecordID: %w", err)
	}

	*target = parsedUUID
	return nil
}

func scanUUID(value any, target *uuid.UUID) error {
	if value == nil {
		*target = uuid.Nil
		return nil
	}

	switch v := value.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*target = id
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return err
		}
		*target = id
	default:
		return fmt.Errorf("cannot scan type %T into UUID", value)
	}
	return nil
}
