package auth

import "github.com/angelmondragon/matmaster-backend/internal/users"

// LoginRequest captures the credentials sent to the login endpoint. Identifier
// is either an email address or a derived user id.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and user produced by a successful login.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
