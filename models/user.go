package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID  string `json:"id"`
	IsAdmin bool   `json:"is_admin"`
}

type LoginResp struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
