package dto

import "github.com/yigit/studentperf/internal/app/models"

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToModel converts the request to the service input
func (r CreateUserRequest) ToModel() models.NewUser {
	return models.NewUser{
		Username: r.Username,
		Password: r.Password,
		Role:     models.Role(r.Role),
	}
}

// UserResponse represents a created account
type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}
