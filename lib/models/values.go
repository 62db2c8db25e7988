package models

import "regexp"

// BillNumberPattern matches a canonical bill identity, e.g. HB123 or SB4.
var BillNumberPattern = regexp.MustCompile(`^(H|S)B\d+$`)

// Unknown is rendered in place of a field the upstream left empty.
const Unknown = "UNKNOWN"

type FieldKind int

const (
	TextField FieldKind = iota
	LongTextField
	DateField
	DateTimeField
)

// Field is one relevant attribute of a record, in canonical naming.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind
}

// FieldSet is ordered; diffs and renderings follow the declared order.
type FieldSet []Field

// Record is implemented by every snapshotted entity.
type Record interface {
	Identity() string
	// Value returns the canonical string form of a field, or "" if absent.
	Value(key string) string
}

var BillFields = FieldSet{
	{Key: "instrumentNbr", Label: "Bill"},
	{Key: "instrumentSponsor", Label: "Sponsor"},
	{Key: "assignedCommittee", Label: "Committee"},
	{Key: "prefiledDate", Label: "Prefiled Date", Kind: DateField},
	{Key: "firstRead", Label: "First Read", Kind: DateField},
	{Key: "currentStatus", Label: "Status"},
	{Key: "subject", Label: "Subject", Kind: LongTextField},
	{Key: "shortTitle", Label: "Title", Kind: LongTextField},
}

var MeetingFields = FieldSet{
	{Key: "instrumentNbr", Label: "Bill"},
	{Key: "committee", Label: "Committee"},
	{Key: "body", Label: "Body"},
	{Key: "publicHearing", Label: "Public Hearing"},
	{Key: "title", Label: "Meeting", Kind: LongTextField},
	{Key: "location", Label: "Location"},
	{Key: "startsAt", Label: "Starts", Kind: DateTimeField},
}
