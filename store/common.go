package store

// RowStatus is the status for a row.
type RowStatus string

const (
	// Normal is the status for a normal row.
	Normal RowStatus = "NORMAL"
	// Archived is the status for an archived row.
	Archived RowStatus = "ARCHIVED"
)

func (r RowStatus) String() string {
	return string(r)
}

// Visibility is the visibility of a note.
type Visibility string

const (
	// Public is the visibility for a note visible to everyone.
	Public Visibility = "PUBLIC"
	// Private is the visibility for a note visible to its creator only.
	Private Visibility = "PRIVATE"
)

func (v Visibility) String() string {
	return string(v)
}
