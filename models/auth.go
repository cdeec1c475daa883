package models

// RoleAdmin is the only role the site knows about.
const RoleAdmin = "admin"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AdminPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// Identity is what a valid token decodes to.
type Identity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
