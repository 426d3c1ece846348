package store

import (
	"context"
)

// Comment is the object representing a comment on a note.
type Comment struct {
	ID        int32
	NoteID    int32
	CreatorID int32
	CreatedTs int64

	Content string
}

// FindComment is the find condition for comment.
type FindComment struct {
	ID        *int32
	NoteID    *int32
	CreatorID *int32

	Limit  *int
	Offset *int
}

// DeleteComment is the delete request for comment.
type DeleteComment struct {
	ID int32
}

func (s *Store) CreateComment(ctx context.Context, create *Comment) (*Comment, error) {
	return s.driver.CreateComment(ctx, create)
}

func (s *Store) ListComments(ctx context.Context, find *FindComment) ([]*Comment, error) {
	return s.driver.ListComments(ctx, find)
}

func (s *Store) GetComment(ctx context.Context, find *FindComment) (*Comment, error) {
	list, err := s.driver.ListComments(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteComment(ctx context.Context, delete *DeleteComment) error {
	return s.driver.DeleteComment(ctx, delete)
}
