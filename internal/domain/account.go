package domain

import "time"

// Account representa la identidad registrada de un usuario.
// Los campos privilegiados y el hash de contraseña nunca se serializan.
type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	IsActive     bool       `json:"-"`
	IsVerified   bool       `json:"-"`
	IsStaff      bool       `json:"-"`
	IsSuperuser  bool       `json:"-"`
	LastLoginAt  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName devuelve nombre y apellido, o el username si faltan.
func (a Account) FullName() string {
	if a.FirstName != "" && a.LastName != "" {
		return a.FirstName + " " + a.LastName
	}
	return a.Username
}
