package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims issued by the portal's auth service
type UserClaims struct {
	UserID      string   `json:"userId"`
	CompanyName string   `json:"companyName,omitempty"`
	SizeTier    SizeTier `json:"sizeTier,omitempty"`
	jwt.RegisteredClaims
}
