package models

import (
	"time"

	"github.com/google/uuid"
)

// Account roles
const (
	RoleBusiness = "business"
	RoleCreator  = "creator"
)

func IsValidRole(r string) bool {
	return r == RoleBusiness || r == RoleCreator
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	CompanyName  *string   `json:"company_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}
