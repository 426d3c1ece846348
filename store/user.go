package store

import (
	"context"
	"fmt"
)

// Role is the role of a user.
type Role string

const (
	// RoleAdmin is the role for an admin.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the role for a regular user.
	RoleUser Role = "USER"
)

// User is the object representing a registered user.
type User struct {
	ID        int32
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64

	Username     string
	Role         Role
	Email        string
	Nickname     string
	PasswordHash string
	AvatarPath   string
}

// FindUser is the find condition for user.
type FindUser struct {
	ID        *int32
	RowStatus *RowStatus
	Username  *string
	Email     *string
	Role      *Role

	Limit  *int
	Offset *int
}

// UpdateUser is the update request for user.
type UpdateUser struct {
	ID int32

	UpdatedTs    *int64
	RowStatus    *RowStatus
	Username     *string
	Email        *string
	Nickname     *string
	PasswordHash *string
	AvatarPath   *string
}

// DeleteUser is the delete request for user.
type DeleteUser struct {
	ID int32
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser gets a user, served from the in-process cache when the find is
// a plain ID lookup.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil && find.RowStatus == nil && find.Username == nil && find.Email == nil && find.Role == nil {
		if cached, ok := s.userCache.Get(userCacheKey(*find.ID)); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}
	s.userCache.Delete(userCacheKey(delete.ID))
	return nil
}

func userCacheKey(id int32) string {
	return fmt.Sprintf("user:%d", id)
}
