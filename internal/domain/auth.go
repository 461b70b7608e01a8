package domain

// Role is the identity provider's opaque authorization input. Role checks
// are route preconditions, never part of the engine operations themselves.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)
