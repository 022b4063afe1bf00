package dto

import "github.com/kite-oss/task-schedule-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	name := user.Name
	if name == "" {
		name = user.Email
	}
	return UserDTO{
		ID:         user.ID,
		Name:       name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
