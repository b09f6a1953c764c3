package domain

// User roles. Admins manage configuration and see global statistics;
// editors (the outsourced operators) publish and approve.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Account is a config-seeded operator account
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// HasEditPermission reports whether the account may approve posts
func (a *Account) HasEditPermission() bool {
	return a.Role == RoleAdmin || a.Role == RoleEditor
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token and user info
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserInfoResponse is the "current user" payload
type UserInfoResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
