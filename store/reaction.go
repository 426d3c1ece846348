package store

import (
	"context"
)

// ReactionKind is the kind of a reaction on a note.
type ReactionKind string

const (
	// ReactionLike is a like on a note.
	ReactionLike ReactionKind = "LIKE"
	// ReactionFavorite is a favorite (bookmark) on a note.
	ReactionFavorite ReactionKind = "FAVORITE"
)

// Reaction is the object representing a (note, user, kind) reaction.
// The triple is unique: a user reacts at most once per kind per note.
type Reaction struct {
	ID        int32
	NoteID    int32
	UserID    int32
	Kind      ReactionKind
	CreatedTs int64
}

// FindReaction is the find condition for reaction.
type FindReaction struct {
	NoteID *int32
	UserID *int32
	Kind   *ReactionKind
}

// DeleteReaction is the delete request for reaction.
type DeleteReaction struct {
	NoteID int32
	UserID int32
	Kind   ReactionKind
}

func (s *Store) CreateReaction(ctx context.Context, create *Reaction) (*Reaction, error) {
	return s.driver.CreateReaction(ctx, create)
}

func (s *Store) ListReactions(ctx context.Context, find *FindReaction) ([]*Reaction, error) {
	return s.driver.ListReactions(ctx, find)
}

func (s *Store) CountReactions(ctx context.Context, find *FindReaction) (int64, error) {
	return s.driver.CountReactions(ctx, find)
}

func (s *Store) DeleteReaction(ctx context.Context, delete *DeleteReaction) error {
	return s.driver.DeleteReaction(ctx, delete)
}

// ToggleReaction creates the reaction if absent and removes it if present,
// returning whether the reaction is now set.
func (s *Store) ToggleReaction(ctx context.Context, noteID, userID int32, kind ReactionKind) (bool, error) {
	existing, err := s.driver.ListReactions(ctx, &FindReaction{
		NoteID: &noteID,
		UserID: &userID,
		Kind:   &kind,
	})
	if err != nil {
		return false, err
	}

	if len(existing) > 0 {
		if err := s.driver.DeleteReaction(ctx, &DeleteReaction{NoteID: noteID, UserID: userID, Kind: kind}); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.driver.CreateReaction(ctx, &Reaction{NoteID: noteID, UserID: userID, Kind: kind}); err != nil {
		return false, err
	}
	return true, nil
}
