package model

import "github.com/golang-jwt/jwt/v5"

// RefreshTokenRecord is stored under refreshTokens/<userid>. The token itself is kept hashed.
type RefreshTokenRecord struct {
	UserID       string `firestore:"userId" json:"userId"`
	RefreshToken string `firestore:"refreshToken" json:"refreshToken"`
	CreatedAt    int64  `firestore:"createdAt" json:"createdAt"` // seconds
	Revoked      bool   `firestore:"revoked" json:"revoked"`
	ExpiresIn    int64  `firestore:"expiresIn" json:"expiresIn"` // seconds
}

type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
