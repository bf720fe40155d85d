package domain

import "time"

// User owns accounts. Credentials live here only so the token endpoints can
// verify them; everything else about identity is out of ledger scope.
type User struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName is the space-joined first and last name used when rendering
// transaction endpoints.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
