package domain

import "time"

// Role controls which parts of the API a user may call.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Surname      string     `json:"surname"`
	Role         Role       `json:"role"`
	Address      string     `json:"address,omitempty"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"-"`
}
