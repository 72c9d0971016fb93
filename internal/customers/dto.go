package customers

import (
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CustomerDTO is the customer account projection returned to clients.
type CustomerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult carries a freshly minted token and the account it belongs to.
type AuthResult struct {
	AccessToken string      `json:"access_token"`
	Customer    CustomerDTO `json:"customer"`
}

func toCustomerDTO(customer *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
	}
}
