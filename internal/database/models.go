package database

import "time"

// Contact is a sender the owner marked as known. Known contacts never get an
// autoreply.
type Contact struct {
	UserID    int64     `db:"user_id"`
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}
