package user

import (
	"time"

	"github.com/gofrs/uuid"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
