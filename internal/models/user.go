package models

import "time"

type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Principal returns the caller identity this user authenticates as.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, CompanyID: u.Company}
}
