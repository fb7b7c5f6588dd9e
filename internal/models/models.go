package models

import (
	"time"
)

// User is a registered account.
//
// Token is the account's only credential after login. It is minted once at
// registration and never rotated, so it doubles as a stable API key.
//
// PasswordHash carries json:"-" so a User can never leak its hash through
// an accidental c.JSON(user).
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is one entry in the shared chat log.
//
// AuthorUsername is a snapshot taken at post time instead of a join on
// users. Usernames cannot be changed, so the snapshot never goes stale.
type Message struct {
	ID             int64     `json:"id"`
	OwnerToken     string    `json:"-"`
	AuthorUsername string    `json:"username"`
	Body           string    `json:"text"`
	CreatedAt      time.Time `json:"timestamp"`
}

// Request is a support ticket in the shared queue.
//
// Like Message, AuthorUsername is denormalized at creation time.
// OwnerToken is what delete checks against; it is never serialized.
type Request struct {
	ID             int64     `json:"id"`
	OwnerToken     string    `json:"-"`
	AuthorUsername string    `json:"username"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       Priority  `json:"priority"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
