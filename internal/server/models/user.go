package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated principal resolved from a token.
type Identity struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity returns the public view of the user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}
