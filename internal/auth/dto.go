package auth

import (
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// OwnerDTO is the owner account projection returned to clients. The password
// hash never leaves the service layer.
type OwnerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult carries a freshly minted token and the account it belongs to.
type AuthResult struct {
	AccessToken string   `json:"access_token"`
	Owner       OwnerDTO `json:"owner"`
}

func toOwnerDTO(user *models.User) OwnerDTO {
	return OwnerDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
