package store

import (
	"context"
)

// Book is the object representing a book a user takes notes on.
type Book struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Title    string
	Author   string
	CoverURL string
}

// FindBook is the find condition for book.
type FindBook struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Title     *string

	Limit  *int
	Offset *int
}

// UpdateBook is the update request for book.
type UpdateBook struct {
	ID int32

	UpdatedTs *int64
	Title     *string
	Author    *string
	CoverURL  *string
}

// DeleteBook is the delete request for book. Notes attached to the book are
// removed by the schema's cascade rule.
type DeleteBook struct {
	ID int32
}

func (s *Store) CreateBook(ctx context.Context, create *Book) (*Book, error) {
	return s.driver.CreateBook(ctx, create)
}

func (s *Store) ListBooks(ctx context.Context, find *FindBook) ([]*Book, error) {
	return s.driver.ListBooks(ctx, find)
}

func (s *Store) GetBook(ctx context.Context, find *FindBook) (*Book, error) {
	list, err := s.driver.ListBooks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateBook(ctx context.Context, update *UpdateBook) (*Book, error) {
	return s.driver.UpdateBook(ctx, update)
}

func (s *Store) DeleteBook(ctx context.Context, delete *DeleteBook) error {
	return s.driver.DeleteBook(ctx, delete)
}
