package store

import (
	"context"
)

// Note is the object representing a rich-text reading note attached to a book.
type Note struct {
	ID        int32
	UID       string
	BookID    int32
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Title       string
	ContentHTML string
	FontName    *string
	FontURL     *string
	Visibility  Visibility
}

// FindNote is the find condition for note.
type FindNote struct {
	ID         *int32
	UID        *string
	BookID     *int32
	CreatorID  *int32
	Visibility *Visibility

	// OrderByUpdatedTs orders results by updated_ts descending.
	OrderByUpdatedTs bool

	Limit  *int
	Offset *int
}

// UpdateNote is the update request for note.
type UpdateNote struct {
	ID int32

	UpdatedTs   *int64
	Title       *string
	ContentHTML *string
	FontName    *string
	FontURL     *string
	Visibility  *Visibility
}

// DeleteNote is the delete request for note.
type DeleteNote struct {
	ID int32
}

func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	return s.driver.CreateNote(ctx, create)
}

func (s *Store) ListNotes(ctx context.Context, find *FindNote) ([]*Note, error) {
	return s.driver.ListNotes(ctx, find)
}

func (s *Store) GetNote(ctx context.Context, find *FindNote) (*Note, error) {
	list, err := s.driver.ListNotes(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error) {
	return s.driver.UpdateNote(ctx, update)
}

func (s *Store) DeleteNote(ctx context.Context, delete *DeleteNote) error {
	return s.driver.DeleteNote(ctx, delete)
}
