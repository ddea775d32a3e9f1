package domain

import (
	"strings"
	"time"
)

// Identity - запись из справочника пользователей, пайплайн ее только читает
type Identity struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"-"`
}

func (i *Identity) Validate() error {
	if strings.TrimSpace(i.Name) == "" || strings.TrimSpace(i.Email) == "" || strings.TrimSpace(i.Location) == "" {
		return ErrMissingRegistration
	}
	return nil
}

func (i *Identity) Sanitize() {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = NormalizeEmail(i.Email)
	i.Location = strings.TrimSpace(i.Location)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
