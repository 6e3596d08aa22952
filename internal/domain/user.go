package domain

import (
	"strings"
	"time"
)

// User is the identity entity owned outside of the serialization layer.
type User struct {
	ID         int64
	Username   string
	Email      string
	FirstName  string
	LastName   string
	IsStaff    bool
	IsActive   bool
	DateJoined time.Time
}

// FullName joins first and last name, trimming surrounding whitespace.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserProfile holds per-user details, one-to-one with User.
type UserProfile struct {
	UserID    int64
	Bio       string
	BirthDate time.Time
}

// Comment is authored by a user. Datetime is assigned at creation.
type Comment struct {
	ID       int64
	AuthorID int64
	Datetime time.Time
	Content  string
}
