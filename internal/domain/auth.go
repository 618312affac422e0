package domain

import "time"

// Auth request/response payloads.

type RegisterRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse carries the token pair. ExpiresIn is seconds until the
// access token expires.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// StoredRefreshToken is the persisted (hashed) form of a refresh token.
type StoredRefreshToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
}
