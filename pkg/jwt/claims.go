package jwt

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the payload carried by every signed API token.
type UserClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
