package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// UserSetting model related methods.
	UpsertUserSetting(ctx context.Context, upsert *UserSetting) (*UserSetting, error)
	ListUserSettings(ctx context.Context, find *FindUserSetting) ([]*UserSetting, error)

	// Book model related methods.
	CreateBook(ctx context.Context, create *Book) (*Book, error)
	ListBooks(ctx context.Context, find *FindBook) ([]*Book, error)
	UpdateBook(ctx context.Context, update *UpdateBook) (*Book, error)
	DeleteBook(ctx context.Context, delete *DeleteBook) error

	// Note model related methods.
	CreateNote(ctx context.Context, create *Note) (*Note, error)
	ListNotes(ctx context.Context, find *FindNote) ([]*Note, error)
	UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error)
	DeleteNote(ctx context.Context, delete *DeleteNote) error

	// Comment model related methods.
	CreateComment(ctx context.Context, create *Comment) (*Comment, error)
	ListComments(ctx context.Context, find *FindComment) ([]*Comment, error)
	DeleteComment(ctx context.Context, delete *DeleteComment) error

	// Reaction model related methods.
	CreateReaction(ctx context.Context, create *Reaction) (*Reaction, error)
	ListReactions(ctx context.Context, find *FindReaction) ([]*Reaction, error)
	CountReactions(ctx context.Context, find *FindReaction) (int64, error)
	DeleteReaction(ctx context.Context, delete *DeleteReaction) error

	// CoverCacheEntry model related methods.
	UpsertCoverCacheEntry(ctx context.Context, upsert *CoverCacheEntry) (*CoverCacheEntry, error)
	ListCoverCacheEntries(ctx context.Context, find *FindCoverCacheEntry) ([]*CoverCacheEntry, error)

	// SystemSetting model related methods.
	UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error)
	ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error)
}
