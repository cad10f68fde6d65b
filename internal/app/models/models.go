package models

// Role names stored in user_roles.
type Role string

const (
	RoleAdmin Role = "admin"
)
