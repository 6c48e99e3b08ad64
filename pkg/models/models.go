package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PermissionLevel is the capability tier attached to a share token. The tiers
// are strictly ordered: each level grants everything the level below it does.
type PermissionLevel string

const (
	PermissionReadOnly          PermissionLevel = "read_only"
	PermissionReadPrint         PermissionLevel = "read_print"
	PermissionReadPrintDownload PermissionLevel = "read_print_download"
)

var permissionRank = map[PermissionLevel]int{
	PermissionReadOnly:          0,
	PermissionReadPrint:         1,
	PermissionReadPrintDownload: 2,
}

// Valid reports whether p is one of the known levels.
func (p PermissionLevel) Valid() bool {
	_, ok := permissionRank[p]
	return ok
}

// Allows reports whether a token at level p may perform actions requiring
// level required. Capability is monotonic: read_print_download allows
// everything read_print does, and so on down.
func (p PermissionLevel) Allows(required PermissionLevel) bool {
	return permissionRank[p] >= permissionRank[required]
}

// JSONList stores a list of strings as a JSON column. GORM has no portable
// string-array type, so the list round-trips through jsonb; SurrealDB and the
// JSON API see a plain array.
type JSONList []string

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *JSONList) Scan(value any) error {
	if value == nil {
		*l = JSONList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		bytes = []byte(value.(string))
	}
	return json.Unmarshal(bytes, l)
}

func (JSONList) GormDataType() string { return "jsonb" }

// Phone is one numbered entry in a contact's phone list.
type Phone struct {
	Number string `json:"phone"`
	Label  string `json:"label"`
}

// PhoneList stores contact phone entries as a JSON column.
type PhoneList []Phone

func (l PhoneList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Phone{})
	}
	return json.Marshal(l)
}

func (l *PhoneList) Scan(value any) error {
	if value == nil {
		*l = PhoneList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		bytes = []byte(value.(string))
	}
	return json.Unmarshal(bytes, l)
}

func (PhoneList) GormDataType() string { return "jsonb" }

// User is a registered account. The password hash never leaves the server:
// it is excluded from JSON and only the auth package reads it.
type User struct {
	ID           UserID    `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null" json:"full_name"`
	State        string    `json:"state"`
	Photo        string    `json:"photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID.IsZero() {
		u.ID = NewUserID()
	}
	return nil
}

// Child is a child record the user documents events against.
type Child struct {
	ID          ChildID   `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     UserID    `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name        string    `gorm:"not null" json:"name"`
	DateOfBirth string    `json:"date_of_birth"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Child) BeforeCreate(tx *gorm.DB) error {
	if c.ID.IsZero() {
		c.ID = NewChildID()
	}
	return nil
}

// Journal is a dated journal entry. Date is the user-entered date of the
// events described (YYYY-MM-DD), distinct from the record timestamps.
type Journal struct {
	ID               JournalID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID          UserID    `gorm:"type:uuid;index;not null" json:"owner_id"`
	Title            string    `gorm:"not null" json:"title"`
	Content          string    `json:"content"`
	Date             string    `gorm:"index" json:"date"`
	ChildrenInvolved JSONList  `json:"children_involved"`
	Mood             string    `json:"mood"`
	Location         string    `json:"location"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (j *Journal) BeforeCreate(tx *gorm.DB) error {
	if j.ID.IsZero() {
		j.ID = NewJournalID()
	}
	return nil
}

// ApplyDefaults backfills fields that older stored records may lack. Stores
// call it after every read so handlers never see absent legacy fields.
func (j *Journal) ApplyDefaults() {
	if j.Mood == "" {
		j.Mood = "neutral"
	}
	if j.ChildrenInvolved == nil {
		j.ChildrenInvolved = JSONList{}
	}
}

// Violation is an incident log entry.
type Violation struct {
	ID            ViolationID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID       UserID      `gorm:"type:uuid;index;not null" json:"owner_id"`
	Title         string      `gorm:"not null" json:"title"`
	Description   string      `json:"description"`
	Date          string      `gorm:"index" json:"date"`
	ViolationType string      `json:"violation_type"`
	Severity      string      `json:"severity"`
	Witnesses     string      `json:"witnesses"`
	EvidenceNotes string      `json:"evidence_notes"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (v *Violation) BeforeCreate(tx *gorm.DB) error {
	if v.ID.IsZero() {
		v.ID = NewViolationID()
	}
	return nil
}

// ApplyDefaults backfills fields that older stored records may lack.
func (v *Violation) ApplyDefaults() {
	if v.Severity == "" {
		v.Severity = "medium"
	}
}

// Document is an uploaded file attachment. Data holds the base64-encoded
// payload and is excluded from JSON; list endpoints and shared views carry
// metadata only, downloads go through a dedicated endpoint.
type Document struct {
	ID          DocumentID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     UserID     `gorm:"type:uuid;index;not null" json:"owner_id"`
	Filename    string     `gorm:"not null" json:"filename"`
	FileType    string     `json:"file_type"`
	FileSize    int64      `json:"file_size"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Data        string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID.IsZero() {
		d.ID = NewDocumentID()
	}
	return nil
}

// CalendarEvent is a scheduled or recorded event. StartDate and EndDate are
// user-entered dates (YYYY-MM-DD), sortable lexicographically.
type CalendarEvent struct {
	ID               EventID   `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID          UserID    `gorm:"type:uuid;index;not null" json:"owner_id"`
	Title            string    `gorm:"not null" json:"title"`
	StartDate        string    `gorm:"index" json:"start_date"`
	EndDate          string    `json:"end_date"`
	EventType        string    `json:"event_type"`
	ChildrenInvolved JSONList  `json:"children_involved"`
	Notes            string    `json:"notes"`
	Location         string    `json:"location"`
	Recurring        bool      `json:"recurring"`
	CreatedAt        time.Time `json:"created_at"`
}

func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID.IsZero() {
		e.ID = NewEventID()
	}
	return nil
}

// ApplyDefaults backfills fields that older stored records may lack.
func (e *CalendarEvent) ApplyDefaults() {
	if e.ChildrenInvolved == nil {
		e.ChildrenInvolved = JSONList{}
	}
}

// Contact is an address-book entry (attorney, mediator, school, ...).
type Contact struct {
	ID        ContactID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   UserID    `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `json:"address"`
	Phones    PhoneList `json:"phones"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID.IsZero() {
		c.ID = NewContactID()
	}
	return nil
}

// ApplyDefaults backfills fields that older stored records may lack.
func (c *Contact) ApplyDefaults() {
	if c.Phones == nil {
		c.Phones = PhoneList{}
	}
}

// ShareToken grants unauthenticated, read-scoped access to a subset of the
// owner's data. Secret is the public bearer credential: generated from
// crypto/rand, globally unique, and never derivable from ID or any other
// field. IsActive is a one-way flag; revocation is permanent.
//
// A token is usable iff IsActive && now <= ExpiresAt. That check happens on
// every public access, never cached.
type ShareToken struct {
	ID                ShareTokenID    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID           UserID          `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name              string          `json:"name"`
	Secret            string          `gorm:"uniqueIndex;not null" json:"secret"`
	ExpiresAt         time.Time       `json:"expires_at"`
	IncludeJournals   bool            `json:"include_journals"`
	IncludeViolations bool            `json:"include_violations"`
	IncludeDocuments  bool            `json:"include_documents"`
	IncludeCalendar   bool            `json:"include_calendar"`
	PermissionLevel   PermissionLevel `json:"permission_level"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (t *ShareToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID.IsZero() {
		t.ID = NewShareTokenID()
	}
	return nil
}

// ApplyDefaults backfills fields that older stored records may lack. Tokens
// stored before permission levels existed read back as read_only, the most
// restrictive tier.
func (t *ShareToken) ApplyDefaults() {
	if !t.PermissionLevel.Valid() {
		t.PermissionLevel = PermissionReadOnly
	}
}

// Usable reports whether the token grants access at the given instant.
func (t *ShareToken) Usable(now time.Time) bool {
	return t.IsActive && !now.After(t.ExpiresAt)
}

// Expired reports whether the token's expiry instant has passed.
func (t *ShareToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ResourceCounts is the per-collection tally backing the dashboard.
type ResourceCounts struct {
	Children   int64 `json:"children"`
	Journals   int64 `json:"journals"`
	Violations int64 `json:"violations"`
	Documents  int64 `json:"documents"`
	Events     int64 `json:"events"`
}
