package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Moc is one Management-of-Change record. Rows are created only by spreadsheet
// import (or seed data), never through the review UI, and are never deleted.
type Moc struct {
	ID uuid.UUID `gorm:"primary_key" json:"id"`
	// MocKey is the natural business identifier lifted out of the key column
	// at import time. It is the conflict target for upserts.
	MocKey    string    `gorm:"uniqueIndex;size:191;not null" json:"moc_key"`
	Columns   ColumnMap `gorm:"type:json" json:"columns"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Moc) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Column name candidates for the well-known fields. Imported sheets are not
// consistent about header spelling, so each accessor walks a fallback chain.
var (
	mocIdentifierColumns  = []string{"MOC ID", "moc_id", "mocid", "moc_code", "moc_number"}
	mocTitleColumns       = []string{"Change Title", "title", "Title"}
	mocOwnerColumns       = []string{"MOC Owner", "owner", "Owner"}
	mocDescriptionColumns = []string{"Change Description", "description", "Description"}
	mocStatusColumns      = []string{"MOC Status", "status", "Status"}
	mocLocationColumns    = []string{"Location", "location"}
)

// Identifier returns the business MOC identifier, or "" when the imported
// sheet had no recognizable identifier column.
func (m *Moc) Identifier() string {
	return m.Columns.Get(mocIdentifierColumns...)
}

func (m *Moc) Title() string       { return m.Columns.Get(mocTitleColumns...) }
func (m *Moc) Owner() string       { return m.Columns.Get(mocOwnerColumns...) }
func (m *Moc) Description() string { return m.Columns.Get(mocDescriptionColumns...) }
func (m *Moc) Status() string      { return m.Columns.Get(mocStatusColumns...) }
func (m *Moc) Location() string    { return m.Columns.Get(mocLocationColumns...) }

// Label is the display string for list rows and report headers.
func (m *Moc) Label() string {
	if m == nil {
		return ""
	}
	if id := m.Identifier(); id != "" {
		return id
	}
	if m.ID != uuid.Nil {
		return m.ID.String()[:8]
	}
	return "(unknown MOC)"
}

// SortKey derives the numeric ordering key from the business identifier.
// Identifiers look like "ML.A1 | 2025 | 3356"; the trailing segment is the
// sequence number. Absent or non-numeric identifiers sort as 0.
func (m *Moc) SortKey() int {
	return SortKeyOf(m.Identifier())
}

func SortKeyOf(identifier string) int {
	if identifier == "" {
		return 0
	}
	segments := strings.Split(identifier, "|")
	last := strings.TrimSpace(segments[len(segments)-1])
	n, err := strconv.Atoi(last)
	if err != nil {
		return 0
	}
	return n
}
