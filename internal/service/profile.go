package service

import (
	"time"

	"codecore/internal/domain"
)

// PublicProfile es la representación pública de una cuenta. La lista de
// campos de este struct es la allow-list de lectura: el hash de password y
// los flags internos (staff, superuser, active, verified, last_login)
// quedan fuera por construcción.
type PublicProfile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	BirthDate   *string   `json:"birth_date"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PresentAccount arma el perfil público de una cuenta.
func PresentAccount(account domain.Account) PublicProfile {
	var birthDate *string
	if account.BirthDate != nil {
		formatted := account.BirthDate.Format(birthLayout)
		birthDate = &formatted
	}
	return PublicProfile{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		FullName:    account.FullName(),
		PhoneNumber: account.PhoneNumber,
		BirthDate:   birthDate,
		AvatarURL:   account.AvatarURL,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}
