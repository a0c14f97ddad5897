package entity

import (
	"time"
)

// RoleUser is the role assigned to every account at registration.
// The role travels inside the access token but is not assignable
// through any public endpoint.
const RoleUser = "user"

// User is the aggregate root for the user domain.
// Password holds the bcrypt hash; the by-id lookup never populates it.
type User struct {
	ID          int64
	Name        string
	Email       string
	Password    string
	Role        string
	DateOfBirth time.Time
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PublicProfile is the subset of User safe to expose externally.
type PublicProfile struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DateOfBirth string    `json:"date_of_birth"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Public projects the user into its externally visible shape.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		DateOfBirth: u.DateOfBirth.Format("2006-01-02"),
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
