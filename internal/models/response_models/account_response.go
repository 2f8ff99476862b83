package response_models

import (
	"github.com/google/uuid"

	"orgaclients/internal/models/db_models"
)

type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt int64     `json:"createdAt"`
}

type MeResponse struct {
	User  UserView   `json:"user"`
	Order *OrderView `json:"order"`
}

func NewUserView(u *db_models.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
