package models

import (
	"time"
)

type BillSnapshot map[string]Bill

// MeetingSnapshot belongs to exactly one tenant.
type MeetingSnapshot map[string]Meeting

// TenantMeetings is the on-disk shape of every tenant's meeting snapshot.
type TenantMeetings map[string]MeetingSnapshot

type SnapshotKind string

const (
	BillKind    SnapshotKind = "bill"
	MeetingKind SnapshotKind = "meeting"
)

// SnapshotEntry is one row of the sqlite snapshot backend.
type SnapshotEntry struct {
	Kind      SnapshotKind `gorm:"primaryKey"`
	TenantID  string       `gorm:"primaryKey"` // empty for bills
	Identity  string       `gorm:"primaryKey"`
	Payload   string
	UpdatedAt time.Time
}
