package domain

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Movie represents the canonical movie entity in the database/service.
type Movie struct {
	ID             int64
	Title          string
	Description    string
	ReleaseDate    time.Time
	Rating         int64
	USGross        int64
	WorldwideGross int64
}

// Resource is a piece of content users can like. Its like count is derived
// from the liked_by membership and never stored.
type Resource struct {
	ID      int64
	Title   string
	Content string
}
