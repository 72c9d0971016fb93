package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SubjectKind distinguishes owner tokens from customer tokens. A customer
// token can never reach owner-scoped routes.
type SubjectKind string

const (
	SubjectOwner    SubjectKind = "owner"
	SubjectCustomer SubjectKind = "customer"
)

func (k SubjectKind) IsValid() bool {
	return k == SubjectOwner || k == SubjectCustomer
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SubjectID uuid.UUID
	Kind      SubjectKind
	Email     string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	SubjectID uuid.UUID   `json:"sub_id"`
	Kind      SubjectKind `json:"kind"`
	Email     string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}
